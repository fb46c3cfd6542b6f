package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

const userAgent = "job-radar/1.0 (+https://github.com/jobradar/jobradar)"

// client is a rate-limited HTTP helper shared by the sources. Each source
// owns its own limiter so one chatty source cannot starve the others.
type client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
}

func newClient(requestsPerSecond float64) *client {
	return &client{
		http:      &http.Client{Timeout: 15 * time.Second},
		limiter:   rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		userAgent: userAgent,
	}
}

func (c *client) get(ctx context.Context, rawURL string, q url.Values) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	return resp, nil
}

// getJSON fetches and decodes a JSON document into out.
func (c *client) getJSON(ctx context.Context, rawURL string, q url.Values, out any) error {
	resp, err := c.get(ctx, rawURL, q)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", rawURL, err)
	}
	return nil
}

// getHTML fetches and parses an HTML document.
func (c *client) getHTML(ctx context.Context, rawURL string, q url.Values) (*html.Node, error) {
	resp, err := c.get(ctx, rawURL, q)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", rawURL, err)
	}
	return doc, nil
}
