package pipeline

import (
	"context"

	"github.com/jobradar/jobradar/internal/job"
)

const stageSeen = "seen"

// seenStage flags postings whose identity key is absent from the loaded
// seen-state as NEW, then records every processed key with the run
// timestamp. Recording happens before any new-only filtering so postings
// excluded from this run's output still stop being NEW next time.
type seenStage struct{}

func (s *seenStage) Name() string { return stageSeen }

func (s *seenStage) Apply(_ context.Context, deps *Deps, batch *Batch) (Step, error) {
	initial := len(batch.Scored)
	now := deps.Now()

	for _, posting := range batch.Scored {
		posting.New = !deps.State.Has(posting.Key)
		if posting.New {
			batch.NewCount++
		}
		deps.State.Record(posting.Key, now)
	}

	if !deps.Profile.NewOnly {
		return Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept := make([]*job.ScoredPosting, 0, initial)
	for _, posting := range batch.Scored {
		if posting.New {
			kept = append(kept, posting)
		}
	}
	batch.Scored = kept

	return Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}
