package agent

import (
	"strings"
	"testing"

	"github.com/david/grants-agent/internal/models"
)

func TestCSVFromResults(t *testing.T) {
	results := []models.Grant{
		{
			Title:       "Housing Grant",
			Agency:      "HUD",
			CFDANumbers: []string{"14.218", "14.228"},
			CloseDate:   "10/01/2026",
			Eligibility: []string{"City governments", "Nonprofits"},
			Link:        "https://example.org/opp/1",
		},
		{
			Title: "(untitled)",
			Link:  "https://www.grants.gov",
		},
	}

	out := CSVFromResults(results)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if len(lines) != len(results)+1 {
		t.Fatalf("expected %d rows (header + %d), got %d", len(results)+1, len(results), len(lines))
	}
	if lines[0] != "Title,Agency,CFDA(s),Close Date,Eligibility,Link" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if lines[1] != "Housing Grant,HUD,14.218;14.228,10/01/2026,City governments;Nonprofits,https://example.org/opp/1" {
		t.Errorf("unexpected first row: %s", lines[1])
	}
	if lines[2] != "(untitled),,,,,https://www.grants.gov" {
		t.Errorf("absent optional fields should render empty: %s", lines[2])
	}
}

func TestCSVFromResults_Empty(t *testing.T) {
	out := CSVFromResults(nil)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected header only, got %d rows", len(lines))
	}
}
