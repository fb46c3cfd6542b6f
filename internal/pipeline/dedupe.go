package pipeline

import (
	"context"

	"github.com/jobradar/jobradar/internal/job"
)

const stageDedupe = "dedupe"

// dedupeStage collapses postings that describe the same real-world job
// across sources into one record. Output keeps the insertion order of the
// first occurrence of each key; ranking happens later. Deduping an already
// deduplicated batch is a no-op.
type dedupeStage struct{}

func (s *dedupeStage) Name() string { return stageDedupe }

func (s *dedupeStage) Apply(_ context.Context, _ *Deps, batch *Batch) (Step, error) {
	initial := len(batch.Postings)

	byKey := make(map[string]*job.Posting, initial)
	order := make([]*job.Posting, 0, initial)

	for _, posting := range batch.Postings {
		existing, ok := byKey[posting.Key]
		if !ok {
			byKey[posting.Key] = posting
			order = append(order, posting)
			continue
		}
		merge(existing, posting)
	}

	batch.Postings = order

	return Step{Initial: initial, Dropped: initial - len(order), Left: len(order)}, nil
}

// merge folds a duplicate into the canonical posting for its key: source
// links are unioned, the longest description wins, the earliest non-nil
// posted timestamp wins, and the first non-nil salary sticks.
func merge(canonical, dup *job.Posting) {
	for source, url := range dup.Sources {
		if _, ok := canonical.Sources[source]; !ok {
			canonical.Sources[source] = url
		}
	}

	if len(dup.Description) > len(canonical.Description) {
		canonical.Description = dup.Description
	}

	if dup.PostedAt != nil {
		if canonical.PostedAt == nil || dup.PostedAt.Before(*canonical.PostedAt) {
			canonical.PostedAt = dup.PostedAt
		}
	}

	if canonical.Salary == nil {
		canonical.Salary = dup.Salary
	}

	if canonical.Arrangement == job.ArrangementUnknown && dup.Arrangement != job.ArrangementUnknown {
		canonical.Arrangement = dup.Arrangement
	}
}
