package agent

import (
	"github.com/david/grants-agent/internal/grantsgov"
	"github.com/david/grants-agent/internal/models"
)

// NormalizeHit converts one raw Grants.gov record into the canonical Grant
// schema. It is total: whatever fields the upstream omits, every output
// field has a defined fallback or empty representation, so a malformed
// record can never abort a search.
//
// Field resolution, first non-empty wins:
//
//	title:       title, opportunityTitle, "(untitled)"
//	agency:      agency, agencyCode
//	cfdaNumbers: cfdaList, assistanceListings
//	closeDate:   closeDate (verbatim, never parsed)
//	openDate:    postDate
//	eligibility: eligibilityCategories, applicantTypes
//	link:        opportunityLink, opportunityIdLink, fallback URL
func NormalizeHit(hit grantsgov.RawHit) models.Grant {
	title := stringField(hit, "title", "opportunityTitle")
	if title == "" {
		title = models.UntitledPlaceholder
	}
	link := stringField(hit, "opportunityLink", "opportunityIdLink")
	if link == "" {
		link = models.FallbackLink
	}

	return models.Grant{
		OpportunityNumber: stringField(hit, "opportunityNumber"),
		Title:             title,
		Agency:            stringField(hit, "agency", "agencyCode"),
		CFDANumbers:       listField(hit, "cfdaList", "assistanceListings"),
		CloseDate:         stringField(hit, "closeDate"),
		OpenDate:          stringField(hit, "postDate"),
		Eligibility:       listField(hit, "eligibilityCategories", "applicantTypes"),
		Link:              link,
	}
}

// stringField returns the first non-empty string value among keys.
// Non-string values count as absent.
func stringField(hit grantsgov.RawHit, keys ...string) string {
	for _, k := range keys {
		if s, ok := hit[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// listField returns the first non-empty string list among keys. JSON
// decoding yields []interface{}; non-string elements are skipped.
func listField(hit grantsgov.RawHit, keys ...string) []string {
	for _, k := range keys {
		switch v := hit[k].(type) {
		case []string:
			if len(v) > 0 {
				return v
			}
		case []interface{}:
			var out []string
			for _, el := range v {
				if s, ok := el.(string); ok {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}
