package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/david/grants-agent/internal/models"
	"github.com/david/grants-agent/internal/store"
)

// UnknownSKUError rejects a checkout naming a SKU absent from the
// catalog. The whole request fails before any totals are computed.
type UnknownSKUError struct {
	SKU string
}

func (e *UnknownSKUError) Error() string {
	return fmt.Sprintf("Unknown SKU: %s", e.SKU)
}

// Engine prices carts against the catalog and flips entitlement on
// completion. No real payment capture happens anywhere.
type Engine struct {
	Catalog *Catalog
	Repo    store.Repository
}

func NewEngine(catalog *Catalog, repo store.Repository) *Engine {
	return &Engine{Catalog: catalog, Repo: repo}
}

// PriceLines prices each requested item. Tax is fixed at zero.
func (e *Engine) PriceLines(items []models.CheckoutItem) ([]models.LineItem, error) {
	lines := make([]models.LineItem, 0, len(items))
	for _, it := range items {
		base, ok := e.Catalog.Price(it.ID)
		if !ok {
			return nil, &UnknownSKUError{SKU: it.ID}
		}
		if it.Quantity == 0 {
			it.Quantity = 1
		}
		subtotal := base * it.Quantity
		tax := 0
		lines = append(lines, models.LineItem{
			ID:         "li_" + it.ID,
			Item:       it,
			BaseAmount: base,
			Subtotal:   subtotal,
			Tax:        tax,
			Total:      subtotal + tax,
		})
	}
	return lines, nil
}

// BuildSession prices the cart and wraps it in a session envelope. When
// sessionID is empty a fresh identifier is minted; the update endpoint
// passes the path identifier through so a session keeps its ID.
func (e *Engine) BuildSession(sessionID, userID string, items []models.CheckoutItem) (*models.CheckoutSession, error) {
	lines, err := e.PriceLines(items)
	if err != nil {
		return nil, err
	}

	var subtotal, tax, total int
	for _, li := range lines {
		subtotal += li.Subtotal
		tax += li.Tax
		total += li.Total
	}

	if sessionID == "" {
		sessionID = "cs_" + uuid.New().String()
	}

	return &models.CheckoutSession{
		ID:       sessionID,
		Status:   "ready_for_payment",
		Currency: "usd",
		PaymentProvider: models.PaymentProvider{
			Provider:                "stripe",
			SupportedPaymentMethods: []string{"card"},
		},
		LineItems: lines,
		Totals: []models.TotalEntry{
			{Type: "subtotal", Amount: subtotal},
			{Type: "tax", Amount: tax},
			{Type: "total", Amount: total},
		},
		Links: []models.Link{
			{Type: "terms_of_use", URL: "https://yourco.example/terms"},
		},
		UserID: userID,
	}, nil
}

// Complete acknowledges a session and, when a user is named, promotes it
// to pro. Repeat completions just re-set the tier.
func (e *Engine) Complete(ctx context.Context, sessionID, userID string) (map[string]interface{}, error) {
	if userID != "" {
		if _, err := e.Repo.Ensure(ctx, userID); err != nil {
			return nil, err
		}
		if err := e.Repo.SetTier(ctx, userID, models.TierPro); err != nil {
			return nil, err
		}
	}
	return map[string]interface{}{
		"id":     sessionID,
		"status": "completed",
		"links": []models.Link{
			{Type: "receipt", URL: "https://yourco.example/receipts/" + sessionID},
		},
	}, nil
}
