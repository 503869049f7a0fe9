package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/david/grants-agent/internal/checkout"
	"github.com/david/grants-agent/internal/grantsgov"
	"github.com/david/grants-agent/internal/models"
	"github.com/david/grants-agent/internal/store"
)

// Response is the outward shape of the agent endpoint. Pro users get the
// CSV fields (and saved_searches when they asked to save); free users get
// the upsell block instead.
type Response struct {
	Tier          models.Tier           `json:"tier"`
	Summary       string                `json:"summary"`
	Results       []models.Grant        `json:"results"`
	Source        string                `json:"source"`
	SortBy        string                `json:"sort_by"`
	CSVFilename   string                `json:"csv_filename,omitempty"`
	CSVContent    string                `json:"csv_content,omitempty"`
	SavedSearches []models.SearchParams `json:"saved_searches,omitempty"`
	Upsell        *Upsell               `json:"upsell,omitempty"`
}

// Upsell names the upgrade product shown to free-tier users.
type Upsell struct {
	Message    string `json:"message"`
	ProductID  string `json:"product_id"`
	PriceCents int    `json:"price_cents"`
}

// Assembler decides what a response looks like for a given tier. It is the
// only place in the service that branches on pro-vs-free.
type Assembler struct {
	Repo    store.Repository
	Catalog *checkout.Catalog

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewAssembler(repo store.Repository, catalog *checkout.Catalog) *Assembler {
	return &Assembler{Repo: repo, Catalog: catalog, Now: time.Now}
}

// Assemble builds the tiered response for an already-normalized result
// list. When saveSearch is set and the user is pro, the search parameters
// are appended to the user's saved list and the updated list is echoed.
func (a *Assembler) Assemble(ctx context.Context, user models.User, params models.SearchParams, saveSearch bool, results []models.Grant, total int) (*Response, error) {
	resp := &Response{
		Tier:    user.Subscription,
		Summary: fmt.Sprintf("Found %d opportunities; showing %d.", total, len(results)),
		Results: results,
		Source:  grantsgov.Source,
		SortBy:  params.SortBy,
	}

	if user.Subscription != models.TierPro {
		price, ok := a.Catalog.Price(checkout.SKUProMonthly)
		if !ok {
			log.Printf("[Assembler] upsell SKU %s missing from catalog", checkout.SKUProMonthly)
		}
		resp.Upsell = &Upsell{
			Message:    "Unlock CSV export, saved searches & alerts with Grants Pro.",
			ProductID:  checkout.SKUProMonthly,
			PriceCents: price,
		}
		return resp, nil
	}

	resp.CSVFilename = fmt.Sprintf("grants_%s.csv", a.Now().UTC().Format("2006-01-02"))
	resp.CSVContent = CSVFromResults(results)

	if saveSearch {
		saved, err := a.Repo.AppendSavedSearch(ctx, user.UserID, params)
		if err != nil {
			return nil, fmt.Errorf("saving search: %w", err)
		}
		resp.SavedSearches = saved
	}

	return resp, nil
}
