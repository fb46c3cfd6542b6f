package pipeline

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/job"
	"github.com/jobradar/jobradar/internal/normalize"
)

const stageNormalize = "normalize"

// normalizeStage converts raw source records into canonical postings.
// Malformed records are dropped and counted, never raised.
type normalizeStage struct{}

func (s *normalizeStage) Name() string { return stageNormalize }

func (s *normalizeStage) Apply(_ context.Context, deps *Deps, batch *Batch) (Step, error) {
	initial := len(batch.Raw)

	postings := make([]*job.Posting, 0, initial)
	for _, raw := range batch.Raw {
		posting, err := normalize.Normalize(raw)
		if err != nil {
			if !errors.Is(err, normalize.ErrMalformed) {
				return Step{}, err
			}
			batch.Rejected++
			if deps.Logger != nil {
				deps.Logger.Debug("dropping malformed posting",
					zap.String("source", raw.Source),
					zap.String("source_id", raw.SourceID),
				)
			}
			continue
		}
		postings = append(postings, posting)
	}

	batch.Postings = postings
	batch.Raw = nil

	return Step{Initial: initial, Dropped: batch.Rejected, Left: len(postings)}, nil
}
