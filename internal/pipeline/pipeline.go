// Package pipeline wires the scoring core into a sequential run:
// normalize -> dedupe -> score -> rank -> seen. Each stage reports how many
// postings it received, dropped and passed on, mirroring the run log of a
// filtering chain.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/job"
	"github.com/jobradar/jobradar/internal/profile"
	"github.com/jobradar/jobradar/internal/seen"
)

// Batch carries the postings through the stages. Early stages consume Raw
// and fill Postings; the scoring stage moves Postings into Scored.
type Batch struct {
	Raw      []job.RawPosting
	Postings []*job.Posting
	Scored   []*job.ScoredPosting

	// Rejected counts raw postings dropped as malformed during
	// normalization.
	Rejected int
	// NewCount counts postings flagged NEW before any new-only filtering.
	NewCount int
}

// Deps aggregates dependencies shared across all stages. State is the
// loaded seen-state; the pipeline mutates it and the caller saves it. Now is
// the injected clock so runs are reproducible under test.
type Deps struct {
	Profile *profile.Profile
	Logger  *zap.Logger
	State   *seen.State
	Now     func() time.Time
}

// Stage is a single pipeline step applied to the batch.
type Stage interface {
	Name() string
	Apply(ctx context.Context, deps *Deps, batch *Batch) (Step, error)
}

// Step describes the result of executing one stage.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Summary holds the run counters handed to the report renderer.
type Summary struct {
	TotalFetched  int
	Rejected      int
	AfterDedupe   int
	AfterMinScore int
	NewCount      int
}

// DefaultStages returns the production stage order.
func DefaultStages() []Stage {
	return []Stage{
		&normalizeStage{},
		&dedupeStage{},
		&scoreStage{},
		&rankStage{},
		&seenStage{},
	}
}

// Run executes the stages over the raw batch and returns the ranked
// postings plus run counters. The profile in deps is assumed validated by
// the caller. An empty raw batch is valid and yields an empty result with
// the seen-state untouched.
func Run(ctx context.Context, deps *Deps, raw []job.RawPosting) (*job.ScoredPostings, Summary, error) {
	summary := Summary{TotalFetched: len(raw)}

	if err := checkDeps(deps); err != nil {
		return nil, summary, err
	}

	batch := &Batch{Raw: raw}

	for _, stage := range DefaultStages() {
		step, err := stage.Apply(ctx, deps, batch)
		if err != nil {
			return nil, summary, fmt.Errorf("%s: %w", stage.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("pipeline stage",
				zap.String("name", stage.Name()),
				zap.Int("initial", step.Initial),
				zap.Int("dropped", step.Dropped),
				zap.Int("left", step.Left),
			)
		}

		switch stage.Name() {
		case stageDedupe:
			summary.AfterDedupe = step.Left
		case stageRank:
			summary.AfterMinScore = step.Left
		}
	}

	summary.Rejected = batch.Rejected
	summary.NewCount = batch.NewCount

	return &job.ScoredPostings{Items: batch.Scored}, summary, nil
}

func checkDeps(deps *Deps) error {
	if deps == nil {
		return errors.New("pipeline dependencies are required")
	}
	if deps.Profile == nil {
		return errors.New("profile is required")
	}
	if deps.State == nil {
		return errors.New("seen-state is required")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return nil
}
