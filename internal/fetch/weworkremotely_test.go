package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const wwrListingHTML = `<html><body>
<section class="jobs">
  <ul>
    <li class="feature">
      <a href="/remote-jobs/techcorp-senior-python-developer">
        <span class="title">Senior Python Developer</span>
        <span class="company">TechCorp</span>
        <span class="region company">Anywhere in the World</span>
      </a>
    </li>
    <li class="feature">
      <a href="/remote-jobs/globex-designer">
        <span class="title">Product Designer</span>
        <span class="company">Globex</span>
      </a>
    </li>
    <li class="feature">
      <a href="/about">no job link here</a>
    </li>
    <li class="view-all"><a href="/remote-jobs/search">View all</a></li>
  </ul>
</section>
</body></html>`

func TestWeWorkRemotelyFetch(t *testing.T) {
	var gotTerm string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTerm = r.URL.Query().Get("term")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(wwrListingHTML))
	}))
	defer server.Close()

	source := &WeWorkRemotely{client: newClient(1000), baseURL: server.URL}

	postings, err := source.Fetch(context.Background(), Query{Search: "python"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotTerm != "python" {
		t.Fatalf("expected the search term to be forwarded, got %q", gotTerm)
	}
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}

	first := postings[0]
	if first.Source != "weworkremotely" {
		t.Fatalf("unexpected source: %q", first.Source)
	}
	if first.Title != "Senior Python Developer" || first.Company != "TechCorp" {
		t.Fatalf("unexpected posting: %+v", first)
	}
	if first.Location != "remote (Anywhere in the World)" {
		t.Fatalf("unexpected location: %q", first.Location)
	}
	if first.URL != server.URL+"/remote-jobs/techcorp-senior-python-developer" {
		t.Fatalf("unexpected url: %q", first.URL)
	}

	second := postings[1]
	if second.Location != "remote" {
		t.Fatalf("expected a bare remote location without a region, got %q", second.Location)
	}
}
