package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

type searchResponse struct {
	Source  string `json:"source"`
	Total   int    `json:"total"`
	Results []struct {
		OpportunityNumber string   `json:"opportunityNumber"`
		Title             string   `json:"title"`
		Agency            string   `json:"agency"`
		CloseDate         string   `json:"closeDate"`
		CFDANumbers       []string `json:"cfdaNumbers"`
		Link              string   `json:"link"`
	} `json:"results"`
}

func main() {
	base := flag.String("base", "http://localhost:8081", "service base URL")
	keyword := flag.String("keyword", "", "search keyword")
	state := flag.String("state", "", "state filter")
	limit := flag.Int("limit", 20, "result count (1-100)")
	flag.Parse()

	q := url.Values{}
	q.Set("keyword", *keyword)
	q.Set("limit", strconv.Itoa(*limit))
	if *state != "" {
		q.Set("state", *state)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(*base + "/api/grants/search?" + q.Encode())
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("search failed: %s", resp.Status)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Fatal(err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Number", "Title", "Agency", "Close Date", "Link"})

	for _, g := range out.Results {
		t.AppendRow(table.Row{g.OpportunityNumber, truncate(g.Title, 60), g.Agency, g.CloseDate, g.Link})
	}
	t.Render()

	fmt.Printf("%d of %d results (source: %s)\n", len(out.Results), out.Total, out.Source)
}

// truncate shortens s to at most max characters, counting runes so a
// multibyte title is never split mid-character.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
