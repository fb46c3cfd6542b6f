package job

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Tier buckets a continuous score for display prioritization.
type Tier string

const (
	TierHero        Tier = "hero"
	TierRecommended Tier = "recommended"
	TierFair        Tier = "fair"
	TierPoor        Tier = "poor"
)

// SubScores are the per-dimension components behind an overall score,
// each on the same 0-5 scale.
type SubScores struct {
	Skills   float64 `json:"skills"`
	Title    float64 `json:"title"`
	Location float64 `json:"location"`
	Salary   float64 `json:"salary"`
}

// AIAssessment is an optional annotation produced by an AI matcher. It is
// attached for reporting only and never feeds back into the score.
type AIAssessment struct {
	Fit    bool    `json:"fit,omitempty"`
	Score  float64 `json:"score,omitempty"`
	Reason string  `json:"reason,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// ScoredPosting is a Posting plus everything the later pipeline stages
// attach to it: the overall score, the per-dimension breakdown, the tier and
// the NEW flag.
type ScoredPosting struct {
	*Posting

	Score         float64       `json:"score"`
	SubScores     SubScores     `json:"sub_scores"`
	MatchedSkills []string      `json:"matched_skills,omitempty"`
	Vetoed        bool          `json:"vetoed,omitempty"`
	Tier          Tier          `json:"tier,omitempty"`
	New           bool          `json:"new"`
	AI            *AIAssessment `json:"ai,omitempty"`
}

type ScoredPostings struct {
	Items []*ScoredPosting
}

func (s *ScoredPostings) Len() int {
	return len(s.Items)
}

func (s *ScoredPostings) FindByKey(key string) *ScoredPosting {
	for _, posting := range s.Items {
		if posting.Key == key {
			return posting
		}
	}
	return nil
}

// ByTier returns the postings belonging to the given tier, preserving order.
func (s *ScoredPostings) ByTier(tier Tier) []*ScoredPosting {
	var out []*ScoredPosting
	for _, posting := range s.Items {
		if posting.Tier == tier {
			out = append(out, posting)
		}
	}
	return out
}

// NewCount returns how many postings carry the NEW flag.
func (s *ScoredPostings) NewCount() int {
	count := 0
	for _, posting := range s.Items {
		if posting.New {
			count++
		}
	}
	return count
}

// ReportByCompany groups postings per company for the interactive report
// action.
func (s *ScoredPostings) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, posting := range s.Items {
		entry := map[string]string{
			"title":    posting.Title,
			"location": posting.Location,
			"score":    strconv.FormatFloat(posting.Score, 'f', 2, 64),
			"tier":     string(posting.Tier),
			"new":      strconv.FormatBool(posting.New),
		}
		if posting.Salary != nil {
			entry["salary"] = fmt.Sprintf("%d-%d %s", posting.Salary.Min, posting.Salary.Max, posting.Salary.Currency)
		}
		for source, url := range posting.Sources {
			entry["url_"+source] = url
		}
		if posting.AI != nil {
			if posting.AI.Error != "" {
				entry["ai_error"] = posting.AI.Error
			} else {
				entry["ai_fit"] = strconv.FormatBool(posting.AI.Fit)
				entry["ai_score"] = strconv.FormatFloat(posting.AI.Score, 'f', -1, 64)
				entry["ai_reason"] = posting.AI.Reason
			}
		}
		report[posting.Company] = append(report[posting.Company], entry)
	}
	return report
}

// DumpToTmpFile writes the ranked postings as indented JSON to a temp file
// and returns its name.
func (s *ScoredPostings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "ranked_postings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return file.Name(), nil
}
