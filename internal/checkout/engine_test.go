package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/david/grants-agent/internal/models"
	"github.com/david/grants-agent/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.MemoryStore) {
	t.Helper()
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	repo := store.NewMemoryStore()
	return NewEngine(catalog, repo), repo
}

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog() error: %v", err)
	}

	tests := []struct {
		sku   string
		price int
	}{
		{"grants_pro_monthly", 1500},
		{"grants_team_monthly", 4900},
	}
	for _, tt := range tests {
		price, ok := catalog.Price(tt.sku)
		if !ok {
			t.Errorf("SKU %s missing from catalog", tt.sku)
			continue
		}
		if price != tt.price {
			t.Errorf("SKU %s: expected %d cents, got %d", tt.sku, tt.price, price)
		}
	}

	if _, ok := catalog.Price("grants_gold_yearly"); ok {
		t.Error("unexpected SKU in catalog")
	}
}

func TestPriceLines(t *testing.T) {
	e, _ := newTestEngine(t)

	lines, err := e.PriceLines([]models.CheckoutItem{{ID: "grants_pro_monthly", Quantity: 2}})
	if err != nil {
		t.Fatalf("PriceLines() error: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}

	li := lines[0]
	if li.ID != "li_grants_pro_monthly" {
		t.Errorf("unexpected line id: %s", li.ID)
	}
	if li.BaseAmount != 1500 || li.Subtotal != 3000 || li.Tax != 0 || li.Total != 3000 {
		t.Errorf("unexpected amounts: %+v", li)
	}
}

func TestPriceLines_UnknownSKU(t *testing.T) {
	e, _ := newTestEngine(t)

	lines, err := e.PriceLines([]models.CheckoutItem{
		{ID: "grants_pro_monthly", Quantity: 1},
		{ID: "bogus_sku", Quantity: 1},
	})
	if lines != nil {
		t.Error("no lines may be returned when any SKU is unknown")
	}

	var skuErr *UnknownSKUError
	if !errors.As(err, &skuErr) {
		t.Fatalf("expected UnknownSKUError, got %v", err)
	}
	if skuErr.SKU != "bogus_sku" {
		t.Errorf("error should name the bad SKU, got %s", skuErr.SKU)
	}
}

func TestPriceLines_DefaultQuantity(t *testing.T) {
	e, _ := newTestEngine(t)

	lines, err := e.PriceLines([]models.CheckoutItem{{ID: "grants_team_monthly"}})
	if err != nil {
		t.Fatalf("PriceLines() error: %v", err)
	}
	if lines[0].Subtotal != 4900 {
		t.Errorf("zero quantity should default to 1, got subtotal %d", lines[0].Subtotal)
	}
}

func TestBuildSession(t *testing.T) {
	e, _ := newTestEngine(t)

	items := []models.CheckoutItem{
		{ID: "grants_pro_monthly", Quantity: 2},
		{ID: "grants_team_monthly", Quantity: 1},
	}
	session, err := e.BuildSession("", "u1", items)
	if err != nil {
		t.Fatalf("BuildSession() error: %v", err)
	}

	if !strings.HasPrefix(session.ID, "cs_") {
		t.Errorf("session id should be cs_-prefixed, got %s", session.ID)
	}
	if session.Status != "ready_for_payment" || session.Currency != "usd" {
		t.Errorf("unexpected session envelope: %+v", session)
	}

	wantTotals := map[string]int{"subtotal": 7900, "tax": 0, "total": 7900}
	for _, te := range session.Totals {
		if te.Amount != wantTotals[te.Type] {
			t.Errorf("total %s: expected %d, got %d", te.Type, wantTotals[te.Type], te.Amount)
		}
	}

	// Each session gets its own identifier.
	other, err := e.BuildSession("", "u1", items)
	if err != nil {
		t.Fatalf("BuildSession() error: %v", err)
	}
	if other.ID == session.ID {
		t.Error("session ids must be unique")
	}

	// An update keeps the identifier it was given.
	updated, err := e.BuildSession(session.ID, "u1", items)
	if err != nil {
		t.Fatalf("BuildSession() error: %v", err)
	}
	if updated.ID != session.ID {
		t.Errorf("update changed session id: %s != %s", updated.ID, session.ID)
	}
}

func TestComplete_FlipsEntitlement(t *testing.T) {
	e, repo := newTestEngine(t)
	ctx := context.Background()

	ack, err := e.Complete(ctx, "cs_abc", "u42")
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if ack["status"] != "completed" {
		t.Errorf("expected completed status, got %v", ack["status"])
	}

	user, _ := repo.Ensure(ctx, "u42")
	if user.Subscription != models.TierPro {
		t.Errorf("expected tier pro after completion, got %s", user.Subscription)
	}

	// Repeat completion is a harmless no-op.
	if _, err := e.Complete(ctx, "cs_abc", "u42"); err != nil {
		t.Fatalf("repeat Complete() error: %v", err)
	}
	user, _ = repo.Ensure(ctx, "u42")
	if user.Subscription != models.TierPro {
		t.Errorf("tier changed after repeat completion: %s", user.Subscription)
	}
}

func TestComplete_NoUser(t *testing.T) {
	e, _ := newTestEngine(t)

	ack, err := e.Complete(context.Background(), "cs_anon", "")
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if ack["id"] != "cs_anon" {
		t.Errorf("ack should echo the session id, got %v", ack["id"])
	}
}
