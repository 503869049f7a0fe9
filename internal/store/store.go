package store

import (
	"context"

	"github.com/david/grants-agent/internal/models"
)

// Repository is the entitlement store: user tiers plus per-user saved
// searches. Implementations are injected into the server so a real
// backing store can replace the in-memory default without touching the
// assembler.
type Repository interface {
	// Ensure returns the user, creating it with tier free on first
	// reference. Idempotent.
	Ensure(ctx context.Context, userID string) (models.User, error)

	// SetTier overwrites the user's tier unconditionally, creating the
	// user first if absent.
	SetTier(ctx context.Context, userID string, tier models.Tier) error

	// AppendSavedSearch appends params to the user's saved-search list
	// and returns the full updated list in insertion order.
	AppendSavedSearch(ctx context.Context, userID string, params models.SearchParams) ([]models.SearchParams, error)

	// SavedSearches returns the user's saved-search list in insertion
	// order, creating the user first if absent.
	SavedSearches(ctx context.Context, userID string) ([]models.SearchParams, error)
}
