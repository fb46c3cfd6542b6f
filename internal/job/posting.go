package job

import (
	"encoding/json"
	"os"
	"time"
)

// Arrangement describes where the work happens. Unknown means the posting
// gave no signal either way; it is not the same thing as Onsite.
type Arrangement string

const (
	ArrangementRemote  Arrangement = "remote"
	ArrangementHybrid  Arrangement = "hybrid"
	ArrangementOnsite  Arrangement = "onsite"
	ArrangementUnknown Arrangement = "unknown"
	// ArrangementAny is valid only as a profile preference, never on a posting.
	ArrangementAny Arrangement = "any"
)

// RawPosting is the source-native record handed back by a fetch source.
// It lives only for the duration of one run.
type RawPosting struct {
	Source      string     `json:"source"`
	SourceID    string     `json:"source_id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	Salary      string     `json:"salary,omitempty"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	PostedAt    *time.Time `json:"posted_at,omitempty"`
}

// SalaryRange is an annualized salary span parsed out of free text.
type SalaryRange struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// Posting is the canonical, normalized form of a job listing. Its Key is a
// pure function of (title, company, location) so the same real-world job
// maps to the same Key regardless of which source reported it.
type Posting struct {
	Key         string            `json:"key"`
	Title       string            `json:"title"`
	Company     string            `json:"company"`
	Location    string            `json:"location"`
	Arrangement Arrangement       `json:"arrangement"`
	Salary      *SalaryRange      `json:"salary,omitempty"`
	Description string            `json:"description"`
	Sources     map[string]string `json:"sources"`
	PostedAt    *time.Time        `json:"posted_at,omitempty"`
}

// Postings is a list of canonical postings with small lookup helpers.
type Postings struct {
	Items []*Posting
}

func (p *Postings) Len() int {
	return len(p.Items)
}

func (p *Postings) FindByKey(key string) *Posting {
	for _, posting := range p.Items {
		if posting.Key == key {
			return posting
		}
	}
	return nil
}

// Keys returns identity keys in list order.
func (p *Postings) Keys() []string {
	keys := make([]string, 0, len(p.Items))
	for _, posting := range p.Items {
		keys = append(keys, posting.Key)
	}
	return keys
}

// DumpToTmpFile writes the postings as indented JSON to a temp file and
// returns its name.
func (p *Postings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "postings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return file.Name(), nil
}
