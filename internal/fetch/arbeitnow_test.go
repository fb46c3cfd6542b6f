package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestArbeitnowFetchPaginates(t *testing.T) {
	var pages []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
  "data": [
    {
      "slug": "python-dev-%s",
      "company_name": "TechCorp",
      "title": "Python Developer",
      "description": "Django work.",
      "remote": true,
      "url": "https://www.arbeitnow.com/jobs/python-dev-%s",
      "tags": ["python"],
      "location": "Berlin",
      "created_at": 1747732800
    }
  ],
  "meta": {"current_page": %s, "last_page": 2}
}`, page, page, page)
	}))
	defer server.Close()

	source := &Arbeitnow{client: newClient(1000), apiURL: server.URL}

	postings, err := source.Fetch(context.Background(), Query{Search: "python"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pages) != 2 {
		t.Fatalf("expected 2 page requests, got %v", pages)
	}
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}

	first := postings[0]
	if first.Source != "arbeitnow" || first.SourceID != "python-dev-1" {
		t.Fatalf("unexpected identity: %+v", first)
	}
	if first.Location != "remote Berlin" {
		t.Fatalf("expected the remote flag folded into the location, got %q", first.Location)
	}
	if first.PostedAt == nil {
		t.Fatal("expected a posted timestamp from created_at")
	}
}

func TestArbeitnowQueryFilter(t *testing.T) {
	item := arbeitnowJob{
		Title:       "Backend Engineer",
		Description: "We use Django.",
		Tags:        []string{"python", "api"},
	}

	cases := []struct {
		search string
		expect bool
	}{
		{"", true},
		{"python", true},
		{"django", true},
		{"Backend", true},
		{"haskell", false},
	}

	for _, tc := range cases {
		if got := matchesQuery(item, Query{Search: tc.search}); got != tc.expect {
			t.Fatalf("matchesQuery(%q): expected %t, got %t", tc.search, tc.expect, got)
		}
	}
}
