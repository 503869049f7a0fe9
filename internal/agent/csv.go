package agent

import (
	"encoding/csv"
	"strings"

	"github.com/david/grants-agent/internal/models"
)

// csvHeader is the fixed export column order.
var csvHeader = []string{"Title", "Agency", "CFDA(s)", "Close Date", "Eligibility", "Link"}

// CSVFromResults renders results as a CSV document: one header row plus
// one row per grant. List-valued fields are joined with ";" and absent
// optional fields render as empty strings.
func CSVFromResults(results []models.Grant) string {
	var buf strings.Builder
	w := csv.NewWriter(&buf)
	w.Write(csvHeader)
	for _, g := range results {
		w.Write([]string{
			g.Title,
			g.Agency,
			strings.Join(g.CFDANumbers, ";"),
			g.CloseDate,
			strings.Join(g.Eligibility, ";"),
			g.Link,
		})
	}
	w.Flush()
	return buf.String()
}
