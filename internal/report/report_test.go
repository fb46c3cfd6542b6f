package report

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jobradar/jobradar/internal/job"
	"github.com/jobradar/jobradar/internal/pipeline"
	"github.com/jobradar/jobradar/internal/profile"
)

func testData() *Data {
	postings := &job.ScoredPostings{Items: []*job.ScoredPosting{
		{
			Posting: &job.Posting{
				Key:         "aaaa",
				Title:       "senior python developer",
				Company:     "techcorp",
				Location:    "remote",
				Arrangement: job.ArrangementRemote,
				Salary:      &job.SalaryRange{Min: 120000, Max: 150000, Currency: "USD"},
				Sources:     map[string]string{"remotive": "https://remotive.com/j/1"},
			},
			Score:     4.6,
			SubScores: job.SubScores{Skills: 5, Title: 5, Location: 5, Salary: 5},
			Tier:      job.TierHero,
			New:       true,
			AI: &job.AIAssessment{
				Fit:    true,
				Score:  0.9,
				Reason: "strong skill overlap",
			},
		},
		{
			Posting: &job.Posting{
				Key:      "bbbb",
				Title:    "data analyst",
				Company:  "globex",
				Location: "berlin",
				Sources:  map[string]string{"arbeitnow": "https://arbeitnow.com/j/2"},
			},
			Score: 3.1,
			Tier:  job.TierFair,
		},
	}}

	return NewData(
		&profile.Profile{CoreSkills: []string{"python"}, Arrangement: job.ArrangementRemote, MinScore: 3.0},
		postings,
		pipeline.Summary{TotalFetched: 5, AfterDedupe: 4, AfterMinScore: 2, NewCount: 1},
		time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	)
}

func TestWriteMarkdown(t *testing.T) {
	renderer, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path, err := renderer.WriteMarkdown(testData())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := string(content)

	for _, want := range []string{
		"senior python developer",
		"**[NEW]**",
		"Top picks",
		"Worth a look",
		"data analyst",
		"120000",
		"strong skill overlap",
		"https://remotive.com/j/1",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("markdown report missing %q:\n%s", want, text)
		}
	}

	// The fair posting was never flagged NEW.
	if strings.Count(text, "[NEW]") != 1 {
		t.Fatalf("expected exactly one NEW badge:\n%s", text)
	}
}

func TestWriteHTML(t *testing.T) {
	renderer, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path, err := renderer.WriteHTML(testData())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := string(content)

	for _, want := range []string{
		"senior python developer",
		"techcorp",
		"https://remotive.com/j/1",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("html report missing %q:\n%s", want, text)
		}
	}
}

func TestWriteEmptyResult(t *testing.T) {
	renderer, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data := NewData(
		&profile.Profile{CoreSkills: []string{"python"}, Arrangement: job.ArrangementAny, MinScore: 3.0},
		&job.ScoredPostings{},
		pipeline.Summary{},
		time.Now(),
	)

	path, err := renderer.WriteMarkdown(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, _ := os.ReadFile(path)
	if !strings.Contains(string(content), "No postings cleared the minimum score") {
		t.Fatalf("expected the empty-state message:\n%s", content)
	}
}

func TestNewDataAssignsUniqueRunIDs(t *testing.T) {
	a := testData()
	b := testData()
	if a.RunID == b.RunID {
		t.Fatal("expected distinct run IDs")
	}
	if a.RunID == "" {
		t.Fatal("expected a non-empty run ID")
	}
}
