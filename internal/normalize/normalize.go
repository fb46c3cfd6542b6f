// Package normalize converts heterogeneous source records into the canonical
// posting shape and derives the identity key used for deduplication and
// seen-state tracking across runs.
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jobradar/jobradar/internal/job"
)

// ErrMalformed marks a raw posting that cannot be normalized (missing title
// or company). Callers drop and count such records instead of failing.
var ErrMalformed = errors.New("malformed raw posting")

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	bracketsRe   = regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]`)
)

// legalSuffixes are trimmed from the end of company names so "Acme Inc." and
// "acme" produce the same identity key.
var legalSuffixes = []string{
	"inc", "llc", "ltd", "limited", "gmbh", "corp", "corporation", "co",
}

// Normalize converts one raw source record into a canonical posting. The
// returned posting carries a single source link; merging links for the same
// real-world job is the deduplicator's business.
func Normalize(raw job.RawPosting) (*job.Posting, error) {
	title := CleanTitle(raw.Title)
	company := CleanCompany(raw.Company)
	location := CleanText(raw.Location)

	if title == "" || company == "" {
		return nil, fmt.Errorf("%w: source=%s id=%s", ErrMalformed, raw.Source, raw.SourceID)
	}

	posting := &job.Posting{
		Key:         Key(title, company, location),
		Title:       title,
		Company:     company,
		Location:    location,
		Arrangement: inferArrangement(raw),
		Salary:      ParseSalary(raw.Salary),
		Description: strings.TrimSpace(raw.Description),
		Sources:     map[string]string{raw.Source: raw.URL},
		PostedAt:    raw.PostedAt,
	}

	return posting, nil
}

// Key derives the identity key from already-cleaned title, company and
// location. The derivation is deterministic and must stay stable across
// releases: persisted seen-state depends on it.
func Key(title, company, location string) string {
	sum := sha256.Sum256([]byte(title + "|" + company + "|" + location))
	return hex.EncodeToString(sum[:8])
}

// CleanText lowercases, trims and collapses internal whitespace.
func CleanText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return whitespaceRe.ReplaceAllString(s, " ")
}

// CleanTitle additionally strips bracketed qualifiers such as "(Remote)" or
// "[Contract]" which vary between sources for the same job.
func CleanTitle(s string) string {
	s = bracketsRe.ReplaceAllString(s, " ")
	return CleanText(s)
}

// CleanCompany additionally strips trailing legal suffixes ("Inc.", "LLC").
func CleanCompany(s string) string {
	s = CleanText(s)
	s = strings.TrimRight(s, ".,")
	for _, suffix := range legalSuffixes {
		trimmed := strings.TrimSuffix(s, " "+suffix)
		if trimmed != s {
			s = strings.TrimRight(trimmed, " .,")
			break
		}
		// Also handle "acme, inc" with the comma glued to the name.
		trimmed = strings.TrimSuffix(s, ", "+suffix)
		if trimmed != s {
			s = strings.TrimRight(trimmed, " .,")
			break
		}
	}
	return strings.TrimSpace(s)
}

// inferArrangement searches title, location and description for fixed
// arrangement keywords. No keyword means Unknown, not Onsite.
func inferArrangement(raw job.RawPosting) job.Arrangement {
	text := strings.ToLower(raw.Title + " " + raw.Location + " " + raw.Description)

	switch {
	case strings.Contains(text, "hybrid"):
		return job.ArrangementHybrid
	case strings.Contains(text, "remote"):
		return job.ArrangementRemote
	case strings.Contains(text, "on-site"),
		strings.Contains(text, "onsite"),
		strings.Contains(text, "in-office"):
		return job.ArrangementOnsite
	default:
		return job.ArrangementUnknown
	}
}
