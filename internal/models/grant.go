package models

import "fmt"

// FallbackLink is used when an upstream record carries no opportunity link.
const FallbackLink = "https://www.grants.gov"

// UntitledPlaceholder is used when an upstream record carries no title.
const UntitledPlaceholder = "(untitled)"

// Grant is the canonical, schema-stable view of one opportunity. Title and
// Link are always populated; every other field may be empty when the
// upstream record omits it.
type Grant struct {
	OpportunityNumber string   `json:"opportunityNumber,omitempty"`
	Title             string   `json:"title"`
	Agency            string   `json:"agency,omitempty"`
	CFDANumbers       []string `json:"cfdaNumbers,omitempty"`
	CloseDate         string   `json:"closeDate,omitempty"`
	OpenDate          string   `json:"openDate,omitempty"`
	Eligibility       []string `json:"eligibility,omitempty"`
	Link              string   `json:"link"`
}

const (
	DefaultSortBy = "closeDate|asc"
	DefaultLimit  = 20
	MaxLimit      = 100
)

// SearchParams describes one search against the upstream source.
// Eligibility is a pipe-separated token list whose semantics belong to
// Grants.gov; it is passed through verbatim.
type SearchParams struct {
	Keyword     string `json:"keyword"`
	State       string `json:"state,omitempty"`
	Eligibility string `json:"eligibility,omitempty"`
	SortBy      string `json:"sort_by"`
	Limit       int    `json:"limit"`
	Offset      int    `json:"offset"`
}

// ApplyDefaults fills the sort specification when absent. Limit defaults
// are the decode layer's job: only there can an absent limit be told apart
// from an explicit zero, which Validate must reject.
func (p *SearchParams) ApplyDefaults() {
	if p.SortBy == "" {
		p.SortBy = DefaultSortBy
	}
}

// Validate rejects out-of-range limit/offset. Values are never clamped.
func (p SearchParams) Validate() error {
	if p.Limit < 1 || p.Limit > MaxLimit {
		return &ValidationError{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", MaxLimit)}
	}
	if p.Offset < 0 {
		return &ValidationError{Field: "offset", Message: "must be >= 0"}
	}
	return nil
}
