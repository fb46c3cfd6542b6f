package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jobradar/jobradar/internal/job"
)

// Profile is the user's search identity. It is built once by the wizard,
// validated before a run, and treated as immutable while the pipeline runs.
type Profile struct {
	// CoreSkills keeps the order the user entered; order matters for the
	// wizard round-trip, not for scoring.
	CoreSkills      []string        `json:"core_skills"`
	SecondarySkills []string        `json:"secondary_skills,omitempty"`
	TargetTitles    []string        `json:"target_titles,omitempty"`
	Location        string          `json:"location,omitempty"`
	Arrangement     job.Arrangement `json:"arrangement"`
	MinSalary       int             `json:"min_salary,omitempty"`
	MinScore        float64         `json:"min_score"`
	Dealbreakers    []string        `json:"dealbreakers,omitempty"`
	NewOnly         bool            `json:"new_only"`
}

var validArrangements = map[job.Arrangement]bool{
	job.ArrangementRemote: true,
	job.ArrangementHybrid: true,
	job.ArrangementOnsite: true,
	job.ArrangementAny:    true,
}

// Validate surfaces configuration errors before the pipeline runs. The
// pipeline itself assumes a validated profile and never re-checks.
func (p *Profile) Validate() error {
	if p == nil {
		return errors.New("profile is required")
	}

	hasCore := false
	for _, skill := range p.CoreSkills {
		if strings.TrimSpace(skill) != "" {
			hasCore = true
			break
		}
	}
	if !hasCore {
		return errors.New("at least one core skill is required")
	}

	if p.MinScore < 0 || p.MinScore > 5 {
		return fmt.Errorf("min_score must be within [0, 5], got %.2f", p.MinScore)
	}

	if p.Arrangement == "" {
		return errors.New("work arrangement preference is required (use \"any\" for no preference)")
	}
	if !validArrangements[p.Arrangement] {
		return fmt.Errorf("unsupported work arrangement preference: %q", p.Arrangement)
	}

	if p.MinSalary < 0 {
		return fmt.Errorf("min_salary must not be negative, got %d", p.MinSalary)
	}

	return nil
}

// Load reads a profile from the given JSON file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %q: %w", path, err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile %q: %w", path, err)
	}

	return &p, nil
}

// Save writes the profile as indented JSON. The write goes through a temp
// file in the same directory so a crash never leaves a half-written profile.
func Save(path string, p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating profile directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".profile_*.json")
	if err != nil {
		return fmt.Errorf("creating temp profile: %w", err)
	}

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp profile: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("setting profile permissions: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing profile: %w", err)
	}

	return nil
}
