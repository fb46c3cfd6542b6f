package scoring

import (
	"math"
	"testing"

	"github.com/jobradar/jobradar/internal/job"
	"github.com/jobradar/jobradar/internal/profile"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func testProfile() *profile.Profile {
	return &profile.Profile{
		CoreSkills:   []string{"python", "django"},
		TargetTitles: []string{"backend engineer"},
		Arrangement:  job.ArrangementRemote,
		MinScore:     3.0,
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	scorer := New(testProfile())
	posting := &job.Posting{
		Key:         "abc",
		Title:       "backend engineer",
		Description: "python and django services",
		Arrangement: job.ArrangementRemote,
	}

	first := scorer.Score(posting)
	second := scorer.Score(posting)

	if first.Score != second.Score || first.SubScores != second.SubScores {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestScoreWeightedSum(t *testing.T) {
	scorer := New(testProfile())
	posting := &job.Posting{
		Title:       "backend engineer",
		Description: "we use python and django",
		Arrangement: job.ArrangementRemote,
	}

	scored := scorer.Score(posting)

	// All four dimensions are perfect: 0.45*5 + 0.25*5 + 0.15*5 + 0.15*5.
	if !almostEqual(scored.Score, 5.0) {
		t.Fatalf("expected 5.0, got %f", scored.Score)
	}
}

func TestSkillsScoreFraction(t *testing.T) {
	scorer := New(testProfile())
	posting := &job.Posting{
		Title:       "data analyst",
		Description: "python scripting, no web frameworks",
		Arrangement: job.ArrangementRemote,
	}

	scored := scorer.Score(posting)

	// One of two core skills matched: 0.5 * 5 = 2.5.
	if !almostEqual(scored.SubScores.Skills, 2.5) {
		t.Fatalf("expected skills 2.5, got %f", scored.SubScores.Skills)
	}
	if len(scored.MatchedSkills) != 1 || scored.MatchedSkills[0] != "python" {
		t.Fatalf("unexpected matched skills: %v", scored.MatchedSkills)
	}
}

func TestSecondarySkillsBonusIsCapped(t *testing.T) {
	prof := testProfile()
	prof.SecondarySkills = []string{"docker", "kubernetes"}
	scorer := New(prof)

	posting := &job.Posting{
		Title:       "analyst",
		Description: "python only, plus docker and kubernetes",
		Arrangement: job.ArrangementRemote,
	}

	scored := scorer.Score(posting)

	// Half the core skills (2.5) plus the full secondary bonus (0.5).
	if !almostEqual(scored.SubScores.Skills, 3.0) {
		t.Fatalf("expected skills 3.0, got %f", scored.SubScores.Skills)
	}
}

func TestSkillsScoreNeverExceedsMax(t *testing.T) {
	prof := testProfile()
	prof.SecondarySkills = []string{"docker"}
	scorer := New(prof)

	posting := &job.Posting{
		Title:       "backend engineer",
		Description: "python, django and docker everywhere",
		Arrangement: job.ArrangementRemote,
	}

	scored := scorer.Score(posting)
	if scored.SubScores.Skills > 5.0 {
		t.Fatalf("skills score exceeded the cap: %f", scored.SubScores.Skills)
	}
}

func TestShortSkillMatchesWholeTokenOnly(t *testing.T) {
	prof := testProfile()
	prof.CoreSkills = []string{"go"}
	scorer := New(prof)

	miss := scorer.Score(&job.Posting{
		Title:       "category manager",
		Description: "good at negotiations",
	})
	if miss.SubScores.Skills != 0 {
		t.Fatalf("expected 'go' not to match inside 'good', got %f", miss.SubScores.Skills)
	}

	hit := scorer.Score(&job.Posting{
		Title:       "engineer",
		Description: "services written in go",
	})
	if !almostEqual(hit.SubScores.Skills, 5.0) {
		t.Fatalf("expected whole-token 'go' to match, got %f", hit.SubScores.Skills)
	}
}

func TestTitleScore(t *testing.T) {
	tests := []struct {
		name    string
		targets []string
		title   string
		expect  float64
	}{
		{
			name:    "whole phrase containment",
			targets: []string{"backend engineer"},
			title:   "Senior Backend Engineer",
			expect:  5.0,
		},
		{
			name:    "partial token overlap",
			targets: []string{"backend engineer"},
			title:   "Platform Engineer",
			expect:  2.5,
		},
		{
			name:    "no overlap",
			targets: []string{"backend engineer"},
			title:   "Product Designer",
			expect:  0,
		},
		{
			name:    "no targets gives neutral score",
			targets: nil,
			title:   "Anything",
			expect:  2.5,
		},
		{
			name:    "best of several targets wins",
			targets: []string{"product designer", "platform engineer"},
			title:   "Staff Platform Engineer",
			expect:  5.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prof := testProfile()
			prof.TargetTitles = tt.targets
			scorer := New(prof)

			scored := scorer.Score(&job.Posting{Title: tt.title, Description: "python django"})
			if !almostEqual(scored.SubScores.Title, tt.expect) {
				t.Fatalf("expected title score %f, got %f", tt.expect, scored.SubScores.Title)
			}
		})
	}
}

func TestLocationScoreMatrix(t *testing.T) {
	tests := []struct {
		name        string
		preference  job.Arrangement
		arrangement job.Arrangement
		expect      float64
	}{
		{"any preference always matches", job.ArrangementAny, job.ArrangementOnsite, 5.0},
		{"exact match", job.ArrangementRemote, job.ArrangementRemote, 5.0},
		{"unknown arrangement is neutral", job.ArrangementRemote, job.ArrangementUnknown, 2.5},
		{"mismatch", job.ArrangementRemote, job.ArrangementOnsite, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prof := testProfile()
			prof.Arrangement = tt.preference
			scorer := New(prof)

			scored := scorer.Score(&job.Posting{
				Title:       "engineer",
				Description: "python django",
				Arrangement: tt.arrangement,
			})
			if !almostEqual(scored.SubScores.Location, tt.expect) {
				t.Fatalf("expected location score %f, got %f", tt.expect, scored.SubScores.Location)
			}
		})
	}
}

func TestSalaryScoreMatrix(t *testing.T) {
	tests := []struct {
		name      string
		minSalary int
		salary    *job.SalaryRange
		expect    float64
	}{
		{"absent salary is neutral", 120000, nil, 2.5},
		{"no minimum set", 0, &job.SalaryRange{Min: 50000, Max: 60000, Currency: "USD"}, 5.0},
		{"range reaches the minimum", 120000, &job.SalaryRange{Min: 100000, Max: 130000, Currency: "USD"}, 5.0},
		{"range below the minimum", 120000, &job.SalaryRange{Min: 80000, Max: 100000, Currency: "USD"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prof := testProfile()
			prof.MinSalary = tt.minSalary
			scorer := New(prof)

			scored := scorer.Score(&job.Posting{
				Title:       "engineer",
				Description: "python django",
				Salary:      tt.salary,
			})
			if !almostEqual(scored.SubScores.Salary, tt.expect) {
				t.Fatalf("expected salary score %f, got %f", tt.expect, scored.SubScores.Salary)
			}
		})
	}
}

func TestDealbreakerVetoOverridesEverything(t *testing.T) {
	prof := testProfile()
	prof.Dealbreakers = []string{"clearance required"}
	scorer := New(prof)

	posting := &job.Posting{
		Title:       "backend engineer",
		Description: "python and django, security clearance required",
		Arrangement: job.ArrangementRemote,
	}

	scored := scorer.Score(posting)

	if !scored.Vetoed {
		t.Fatal("expected the posting to be vetoed")
	}
	if scored.Score != 0 {
		t.Fatalf("expected score 0 after veto, got %f", scored.Score)
	}
	// Sub-scores stay intact so reports can explain what was vetoed.
	if scored.SubScores.Skills == 0 {
		t.Fatal("expected sub-scores to survive the veto")
	}
}

func TestDealbreakerMatchesTitleToo(t *testing.T) {
	prof := testProfile()
	prof.Dealbreakers = []string{"unpaid"}
	scorer := New(prof)

	scored := scorer.Score(&job.Posting{
		Title:       "Unpaid Intern",
		Description: "python django",
	})
	if !scored.Vetoed {
		t.Fatal("expected a dealbreaker in the title to veto")
	}
}
