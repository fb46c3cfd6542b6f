package pipeline

import (
	"context"

	"github.com/jobradar/jobradar/internal/job"
	"github.com/jobradar/jobradar/internal/scoring"
)

const stageScore = "score"

// scoreStage computes the match score for every deduplicated posting. It
// drops nothing; filtering belongs to the rank stage.
type scoreStage struct{}

func (s *scoreStage) Name() string { return stageScore }

func (s *scoreStage) Apply(_ context.Context, deps *Deps, batch *Batch) (Step, error) {
	initial := len(batch.Postings)

	scorer := scoring.New(deps.Profile)

	scored := make([]*job.ScoredPosting, 0, initial)
	for _, posting := range batch.Postings {
		scored = append(scored, scorer.Score(posting))
	}

	batch.Scored = scored
	batch.Postings = nil

	return Step{Initial: initial, Dropped: 0, Left: len(scored)}, nil
}
