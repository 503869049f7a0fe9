package grantsgov

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/david/grants-agent/internal/models"
)

// Source is the label echoed in every search response.
const Source = "grants.gov/search2"

const snippetLimit = 300

// UpstreamError reports a non-success response from Grants.gov. It carries
// the upstream status code and a truncated body snippet and surfaces as a
// 502 at the HTTP boundary.
type UpstreamError struct {
	StatusCode int
	Snippet    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("Grants.gov error: n/a %s", e.Snippet)
	}
	return fmt.Sprintf("Grants.gov error: %d %s", e.StatusCode, e.Snippet)
}

// RawHit is one upstream record exactly as returned. Its loose shape never
// leaves this package or the normalizer that consumes it.
type RawHit map[string]interface{}

// Envelope is the search2 response. TotalRecords is a pointer so an
// absent count can fall back to the hit count.
type Envelope struct {
	OppHits      []RawHit `json:"oppHits"`
	TotalRecords *int     `json:"totalRecords"`
}

// Total returns the upstream record count, falling back to the number of
// hits in this page when the upstream omits it.
func (e *Envelope) Total() int {
	if e.TotalRecords != nil {
		return *e.TotalRecords
	}
	return len(e.OppHits)
}

// Client queries the public Grants.gov search2 API. One request per
// Search call, no retries, no caching.
type Client struct {
	HTTP      *http.Client
	SearchURL string
	DetailURL string
}

func NewClient() *Client {
	return &Client{
		HTTP: &http.Client{
			Timeout: 25 * time.Second,
		},
		SearchURL: "https://www.grants.gov/api/common/search2",
		DetailURL: "https://api.grants.gov/v1/api/fetchOpportunity",
	}
}

// Search issues a single GET against search2, renaming our parameter
// names to the upstream convention. State and eligibility are included
// only when non-empty.
func (c *Client) Search(ctx context.Context, p models.SearchParams) (*Envelope, error) {
	q := url.Values{}
	q.Set("keyword", p.Keyword)
	q.Set("startRecordNum", strconv.Itoa(p.Offset))
	q.Set("rows", strconv.Itoa(p.Limit))
	q.Set("sortBy", p.SortBy)
	if p.State != "" {
		q.Set("state", p.State)
	}
	if p.Eligibility != "" {
		q.Set("eligibility", p.Eligibility)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SearchURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	log.Printf("[GrantsGov] Searching keyword=%q rows=%d start=%d", p.Keyword, p.Limit, p.Offset)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		// Transport-level failures (timeout, DNS, refused connection)
		// surface as gateway errors just like bad statuses.
		return nil, &UpstreamError{Snippet: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, snippetLimit))
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Snippet: string(body)}
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &env, nil
}
