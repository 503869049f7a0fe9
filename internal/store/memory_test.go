package store

import (
	"context"
	"testing"

	"github.com/david/grants-agent/internal/models"
)

func TestEnsure_LazyCreation(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	u, err := m.Ensure(ctx, "alice")
	if err != nil {
		t.Fatalf("Ensure() error: %v", err)
	}
	if u.UserID != "alice" || u.Subscription != models.TierFree {
		t.Errorf("new user should be free: %+v", u)
	}
	if u.CreatedAt.IsZero() {
		t.Error("created_at should be set")
	}

	// Idempotent: a second call returns the same record.
	again, _ := m.Ensure(ctx, "alice")
	if again != u {
		t.Errorf("Ensure() not idempotent: %+v != %+v", again, u)
	}
}

func TestSetTier(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	// Creates the user when absent.
	if err := m.SetTier(ctx, "bob", models.TierPro); err != nil {
		t.Fatalf("SetTier() error: %v", err)
	}
	u, _ := m.Ensure(ctx, "bob")
	if u.Subscription != models.TierPro {
		t.Errorf("expected pro, got %s", u.Subscription)
	}

	// Overwrites unconditionally.
	m.SetTier(ctx, "bob", models.TierFree)
	u, _ = m.Ensure(ctx, "bob")
	if u.Subscription != models.TierFree {
		t.Errorf("expected free after overwrite, got %s", u.Subscription)
	}
}

func TestAppendSavedSearch_Order(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	first := models.SearchParams{Keyword: "water"}
	second := models.SearchParams{Keyword: "energy"}

	list, err := m.AppendSavedSearch(ctx, "carol", first)
	if err != nil {
		t.Fatalf("AppendSavedSearch() error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(list))
	}

	list, _ = m.AppendSavedSearch(ctx, "carol", second)
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}
	if list[0].Keyword != "water" || list[1].Keyword != "energy" {
		t.Errorf("entries out of insertion order: %+v", list)
	}

	got, _ := m.SavedSearches(ctx, "carol")
	if len(got) != 2 {
		t.Errorf("SavedSearches() length: expected 2, got %d", len(got))
	}

	// The returned slice is a copy, not a live view.
	got[0].Keyword = "mutated"
	fresh, _ := m.SavedSearches(ctx, "carol")
	if fresh[0].Keyword != "water" {
		t.Error("stored list was mutated through a returned slice")
	}
}
