package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/jobradar/jobradar/internal/job"
)

const wwrBaseURL = "https://weworkremotely.com"

// WeWorkRemotely scrapes the WWR search listing. The board has no public
// API, so this parses the rendered HTML.
type WeWorkRemotely struct {
	client  *client
	baseURL string
}

func NewWeWorkRemotely() *WeWorkRemotely {
	return &WeWorkRemotely{
		client:  newClient(0.5),
		baseURL: wwrBaseURL,
	}
}

func (w *WeWorkRemotely) Name() string { return "weworkremotely" }

func (w *WeWorkRemotely) Fetch(ctx context.Context, query Query) ([]job.RawPosting, error) {
	q := url.Values{}
	if query.Search != "" {
		q.Set("term", query.Search)
	}

	doc, err := w.client.getHTML(ctx, w.baseURL+"/remote-jobs/search", q)
	if err != nil {
		return nil, fmt.Errorf("weworkremotely search: %w", err)
	}

	var postings []job.RawPosting
	for _, li := range findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "li" && hasClass(n, "feature")
	}) {
		posting, ok := w.parseListing(li)
		if !ok {
			continue
		}
		postings = append(postings, posting)
	}

	return postings, nil
}

// parseListing pulls one job out of a listing <li>. Listings link to the
// job page and carry title/company/region spans.
func (w *WeWorkRemotely) parseListing(li *html.Node) (job.RawPosting, bool) {
	link := findFirst(li, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "a" && strings.Contains(attr(n, "href"), "/remote-jobs/")
	})
	if link == nil {
		return job.RawPosting{}, false
	}

	href := attr(link, "href")
	title := spanText(li, "title")
	company := spanText(li, "company")
	region := spanText(li, "region")

	if title == "" || company == "" {
		return job.RawPosting{}, false
	}

	location := "remote"
	if region != "" {
		location = "remote (" + region + ")"
	}

	return job.RawPosting{
		Source:   w.Name(),
		SourceID: strings.Trim(href, "/"),
		Title:    title,
		Company:  company,
		Location: location,
		URL:      w.baseURL + href,
	}, true
}

func spanText(root *html.Node, class string) string {
	span := findFirst(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "span" && hasClass(n, class)
	})
	if span == nil {
		return ""
	}
	return textContent(span)
}
