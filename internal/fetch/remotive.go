package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/jobradar/jobradar/internal/job"
)

const remotiveAPIURL = "https://remotive.com/api/remote-jobs"

// Remotive pulls from the Remotive public API. All of its postings are
// remote by definition.
type Remotive struct {
	client *client
	apiURL string
}

type remotiveResponse struct {
	Jobs []map[string]any `json:"jobs"`
}

type remotiveJob struct {
	ID          int    `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	Location    string `json:"candidate_required_location"`
	Salary      string `json:"salary"`
	Description string `json:"description"`
	PublishedAt string `json:"publication_date"`
}

func NewRemotive() *Remotive {
	return &Remotive{
		client: newClient(1),
		apiURL: remotiveAPIURL,
	}
}

func (r *Remotive) Name() string { return "remotive" }

func (r *Remotive) Fetch(ctx context.Context, query Query) ([]job.RawPosting, error) {
	q := url.Values{}
	if query.Search != "" {
		q.Set("search", query.Search)
	}

	var response remotiveResponse
	if err := r.client.getJSON(ctx, r.apiURL, q, &response); err != nil {
		return nil, fmt.Errorf("remotive api: %w", err)
	}

	var items []remotiveJob
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &items,
		TagName: "json",
		// The API mixes numeric types; let mapstructure coerce them.
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(response.Jobs); err != nil {
		return nil, fmt.Errorf("decoding remotive jobs: %w", err)
	}

	postings := make([]job.RawPosting, 0, len(items))
	for _, item := range items {
		postings = append(postings, job.RawPosting{
			Source:      r.Name(),
			SourceID:    fmt.Sprintf("%d", item.ID),
			Title:       item.Title,
			Company:     item.CompanyName,
			Location:    remotiveLocation(item.Location),
			Salary:      item.Salary,
			Description: item.Description,
			URL:         item.URL,
			PostedAt:    parseRemotiveTime(item.PublishedAt),
		})
	}

	return postings, nil
}

// remotiveLocation keeps the remote signal visible to the arrangement
// inference even when the API only lists eligible regions.
func remotiveLocation(region string) string {
	region = strings.TrimSpace(region)
	if region == "" {
		return "remote"
	}
	if strings.Contains(strings.ToLower(region), "remote") {
		return region
	}
	return "remote (" + region + ")"
}

func parseRemotiveTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", value)
	if err != nil {
		return nil
	}
	return &t
}
