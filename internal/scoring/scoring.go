// Package scoring computes the multi-factor match score between a profile
// and a canonical posting. Scoring is pure: the same (profile, posting) pair
// always yields the same result.
package scoring

import (
	"strings"

	"github.com/jobradar/jobradar/internal/job"
	"github.com/jobradar/jobradar/internal/profile"
)

// Weights is the named weight table behind the overall score. The weights
// must sum to 1.0; tests assert exact per-dimension contributions against it.
type Weights struct {
	Skills   float64
	Title    float64
	Location float64
	Salary   float64
}

// DefaultWeights is the production weight table.
var DefaultWeights = Weights{
	Skills:   0.45,
	Title:    0.25,
	Location: 0.15,
	Salary:   0.15,
}

const (
	maxScore = 5.0
	// secondaryBonusCap limits how much secondary skills can add on top of
	// the core-skill base.
	secondaryBonusCap = 0.5
	// unknownScore is the benefit-of-the-doubt value for missing signals
	// (unknown arrangement, absent salary).
	unknownScore = 2.5
)

// Scorer scores postings against one fixed profile.
type Scorer struct {
	profile *profile.Profile
	weights Weights
}

// New creates a scorer for the given profile with the default weight table.
func New(p *profile.Profile) *Scorer {
	return &Scorer{profile: p, weights: DefaultWeights}
}

// NewWithWeights creates a scorer with a custom weight table. Used by tests
// to isolate dimensions.
func NewWithWeights(p *profile.Profile, w Weights) *Scorer {
	return &Scorer{profile: p, weights: w}
}

// Score produces a scored posting with all sub-scores filled in. Tier and
// the NEW flag stay unset; later pipeline stages own those.
func (s *Scorer) Score(posting *job.Posting) *job.ScoredPosting {
	haystack := strings.ToLower(posting.Title + " " + posting.Description)

	skills, matched := s.skillsScore(haystack)
	title := s.titleScore(posting.Title)
	location := s.locationScore(posting.Arrangement)
	salary := s.salaryScore(posting.Salary)

	scored := &job.ScoredPosting{
		Posting: posting,
		SubScores: job.SubScores{
			Skills:   skills,
			Title:    title,
			Location: location,
			Salary:   salary,
		},
		MatchedSkills: matched,
	}

	scored.Score = s.weights.Skills*skills +
		s.weights.Title*title +
		s.weights.Location*location +
		s.weights.Salary*salary

	// The dealbreaker veto is an override applied last, not a component of
	// the weighted mean.
	if s.hasDealbreaker(haystack) {
		scored.Score = 0
		scored.Vetoed = true
	}

	return scored
}

// skillsScore is the fraction of core skills found in the posting text,
// scaled to 0-5, plus a capped bonus for secondary skills.
func (s *Scorer) skillsScore(haystack string) (float64, []string) {
	var matched []string

	coreHits := 0
	coreTotal := 0
	for _, skill := range s.profile.CoreSkills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" {
			continue
		}
		coreTotal++
		if containsSkill(haystack, skill) {
			coreHits++
			matched = append(matched, skill)
		}
	}

	if coreTotal == 0 {
		return 0, nil
	}

	score := float64(coreHits) / float64(coreTotal) * maxScore

	secondaryHits := 0
	secondaryTotal := 0
	for _, skill := range s.profile.SecondarySkills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" {
			continue
		}
		secondaryTotal++
		if containsSkill(haystack, skill) {
			secondaryHits++
			matched = append(matched, skill)
		}
	}

	if secondaryTotal > 0 {
		score += secondaryBonusCap * float64(secondaryHits) / float64(secondaryTotal)
	}

	if score > maxScore {
		score = maxScore
	}

	return score, matched
}

// titleScore is the best fuzzy containment of any target title in the
// posting title: whole-phrase containment is an exact match, otherwise the
// score is proportional to significant-token overlap.
func (s *Scorer) titleScore(postingTitle string) float64 {
	if len(s.profile.TargetTitles) == 0 {
		return unknownScore
	}

	title := strings.ToLower(postingTitle)
	titleTokens := significantTokens(title)

	best := 0.0
	for _, target := range s.profile.TargetTitles {
		target = strings.ToLower(strings.TrimSpace(target))
		if target == "" {
			continue
		}

		if strings.Contains(title, target) {
			return maxScore
		}

		targetTokens := significantTokens(target)
		if len(targetTokens) == 0 {
			continue
		}

		hits := 0
		for _, token := range targetTokens {
			if containsToken(titleTokens, token) {
				hits++
			}
		}

		score := float64(hits) / float64(len(targetTokens)) * maxScore
		if score > best {
			best = score
		}
	}

	return best
}

// locationScore compares the inferred arrangement against the preference.
func (s *Scorer) locationScore(arrangement job.Arrangement) float64 {
	if s.profile.Arrangement == job.ArrangementAny {
		return maxScore
	}
	switch arrangement {
	case s.profile.Arrangement:
		return maxScore
	case job.ArrangementUnknown:
		return unknownScore
	default:
		return 0
	}
}

// salaryScore compares the parsed range against the profile's implied
// minimum. An absent salary gets the benefit of the doubt.
func (s *Scorer) salaryScore(salary *job.SalaryRange) float64 {
	if salary == nil {
		return unknownScore
	}
	if s.profile.MinSalary <= 0 {
		return maxScore
	}
	if salary.Max >= s.profile.MinSalary {
		return maxScore
	}
	return 0
}

func (s *Scorer) hasDealbreaker(haystack string) bool {
	for _, term := range s.profile.Dealbreakers {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}
