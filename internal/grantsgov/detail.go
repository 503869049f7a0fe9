package grantsgov

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// OpportunityDetail is the cleaned-up view of one fetchOpportunity
// response: the synopsis HTML reduced to plain text plus the award range
// when the upstream provides one.
type OpportunityDetail struct {
	ID           string   `json:"id"`
	Description  string   `json:"description,omitempty"`
	Eligibility  []string `json:"eligibility,omitempty"`
	AwardFloor   float64  `json:"award_floor,omitempty"`
	AwardCeiling float64  `json:"award_ceiling,omitempty"`
}

// FetchDetail fetches detailed information for a specific opportunity ID.
func (c *Client) FetchDetail(ctx context.Context, oppID string) (*OpportunityDetail, error) {
	reqBody, _ := json.Marshal(map[string]string{"id": oppID})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.DetailURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &UpstreamError{Snippet: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, snippetLimit))
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Snippet: string(body)}
	}

	var raw map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	detail := &OpportunityDetail{ID: oppID}

	// The response usually carries a "synopsis" object.
	syn, ok := raw["synopsis"].(map[string]interface{})
	if !ok {
		return detail, nil
	}
	if desc, ok := syn["synopsisDesc"].(string); ok && desc != "" {
		detail.Description = htmlToText(desc)
	}
	if elig, ok := syn["applicantEligibilityDesc"].(string); ok && elig != "" {
		detail.Eligibility = []string{htmlToText(elig)}
	}
	if v, ok := parseMoney(syn["awardCeiling"]); ok {
		detail.AwardCeiling = v
	}
	if v, ok := parseMoney(syn["awardFloor"]); ok {
		detail.AwardFloor = v
	}

	return detail, nil
}

// parseMoney handles award amounts that arrive as "$1,500,000", "1500000"
// or a JSON number.
func parseMoney(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, t > 0
	case string:
		clean := strings.ReplaceAll(strings.ReplaceAll(t, "$", ""), ",", "")
		if clean == "" {
			return 0, false
		}
		val, err := strconv.ParseFloat(clean, 64)
		return val, err == nil && val > 0
	}
	return 0, false
}

// htmlToText sanitizes upstream HTML and collapses it to plain text.
func htmlToText(html string) string {
	safe := bluemonday.UGCPolicy().Sanitize(html)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(safe))
	if err != nil {
		return strings.Join(strings.Fields(safe), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
