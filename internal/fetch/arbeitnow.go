package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jobradar/jobradar/internal/job"
)

const (
	arbeitnowAPIURL = "https://www.arbeitnow.com/api/job-board-api"
	// The board is paginated; a few pages are plenty for a local radar run.
	arbeitnowMaxPages = 3
)

// Arbeitnow pulls from the Arbeitnow job board API, page by page.
type Arbeitnow struct {
	client *client
	apiURL string
}

type arbeitnowResponse struct {
	Data []arbeitnowJob `json:"data"`
	Meta struct {
		CurrentPage int `json:"current_page"`
		LastPage    int `json:"last_page"`
	} `json:"meta"`
}

type arbeitnowJob struct {
	Slug        string   `json:"slug"`
	CompanyName string   `json:"company_name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Remote      bool     `json:"remote"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags"`
	Location    string   `json:"location"`
	CreatedAt   int64    `json:"created_at"`
}

func NewArbeitnow() *Arbeitnow {
	return &Arbeitnow{
		client: newClient(1),
		apiURL: arbeitnowAPIURL,
	}
}

func (a *Arbeitnow) Name() string { return "arbeitnow" }

func (a *Arbeitnow) Fetch(ctx context.Context, query Query) ([]job.RawPosting, error) {
	var postings []job.RawPosting

	for page := 1; page <= arbeitnowMaxPages; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))

		var response arbeitnowResponse
		if err := a.client.getJSON(ctx, a.apiURL, q, &response); err != nil {
			return nil, fmt.Errorf("arbeitnow api page %d: %w", page, err)
		}

		for _, item := range response.Data {
			if !matchesQuery(item, query) {
				continue
			}
			postings = append(postings, a.toRaw(item))
		}

		if response.Meta.LastPage != 0 && page >= response.Meta.LastPage {
			break
		}
	}

	return postings, nil
}

func (a *Arbeitnow) toRaw(item arbeitnowJob) job.RawPosting {
	location := item.Location
	if item.Remote && !strings.Contains(strings.ToLower(location), "remote") {
		location = strings.TrimSpace("remote " + location)
	}

	var postedAt *time.Time
	if item.CreatedAt > 0 {
		t := time.Unix(item.CreatedAt, 0).UTC()
		postedAt = &t
	}

	return job.RawPosting{
		Source:      a.Name(),
		SourceID:    item.Slug,
		Title:       item.Title,
		Company:     item.CompanyName,
		Location:    location,
		Description: item.Description,
		URL:         item.URL,
		PostedAt:    postedAt,
	}
}

// matchesQuery does a client-side search filter; the API has no search
// parameter.
func matchesQuery(item arbeitnowJob, query Query) bool {
	search := strings.ToLower(strings.TrimSpace(query.Search))
	if search == "" {
		return true
	}

	haystack := strings.ToLower(item.Title + " " + item.Description + " " + strings.Join(item.Tags, " "))
	for _, term := range strings.Fields(search) {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}
