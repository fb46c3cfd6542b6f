package ai

import (
	"context"

	"github.com/jobradar/jobradar/internal/job"
	"github.com/jobradar/jobradar/internal/profile"
)

// FitAssessment is an AI opinion on how well a posting fits the profile. It
// annotates the report; the deterministic score is never derived from it.
type FitAssessment struct {
	Fit    bool
	Score  float64
	Reason string
	Raw    string
}

// Matcher evaluates a scored posting against the user's profile.
type Matcher interface {
	Evaluate(ctx context.Context, p *profile.Profile, posting *job.ScoredPosting) (*FitAssessment, error)
}
