package pipeline

import (
	"context"
	"sort"
	"time"

	"github.com/jobradar/jobradar/internal/job"
)

const stageRank = "rank"

// Tier boundaries on the 0-5 score scale.
const (
	tierHeroMin        = 4.0
	tierRecommendedMin = 3.5
	tierFairMin        = 3.0
)

// rankStage filters by the profile's minimum score, sorts the survivors
// into a deterministic total order and assigns tiers. Vetoed postings are
// always excluded, whatever the minimum score is.
type rankStage struct{}

func (s *rankStage) Name() string { return stageRank }

func (s *rankStage) Apply(_ context.Context, deps *Deps, batch *Batch) (Step, error) {
	initial := len(batch.Scored)

	kept := make([]*job.ScoredPosting, 0, initial)
	for _, posting := range batch.Scored {
		if posting.Vetoed {
			continue
		}
		if posting.Score < deps.Profile.MinScore {
			continue
		}
		kept = append(kept, posting)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !equalPostedAt(a.PostedAt, b.PostedAt) {
			return laterPostedAt(a.PostedAt, b.PostedAt)
		}
		return a.Key < b.Key
	})

	for _, posting := range kept {
		posting.Tier = tierFor(posting.Score)
	}

	batch.Scored = kept

	return Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

func tierFor(score float64) job.Tier {
	switch {
	case score >= tierHeroMin:
		return job.TierHero
	case score >= tierRecommendedMin:
		return job.TierRecommended
	case score >= tierFairMin:
		return job.TierFair
	default:
		return job.TierPoor
	}
}

func equalPostedAt(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// laterPostedAt orders newer timestamps first; postings without a timestamp
// sort after dated ones.
func laterPostedAt(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}
