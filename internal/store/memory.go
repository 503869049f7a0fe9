package store

import (
	"context"
	"sync"
	"time"

	"github.com/david/grants-agent/internal/models"
)

// MemoryStore is the default Repository: process-wide maps guarded by a
// mutex so concurrent requests touching the same user serialize cleanly.
// Everything is lost on restart.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[string]models.User
	searches map[string][]models.SearchParams
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]models.User),
		searches: make(map[string][]models.SearchParams),
	}
}

func (m *MemoryStore) Ensure(_ context.Context, userID string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ensureLocked(userID), nil
}

func (m *MemoryStore) ensureLocked(userID string) models.User {
	if u, ok := m.users[userID]; ok {
		return u
	}
	u := models.User{
		UserID:       userID,
		Subscription: models.TierFree,
		CreatedAt:    time.Now().UTC(),
	}
	m.users[userID] = u
	m.searches[userID] = nil
	return u
}

func (m *MemoryStore) SetTier(_ context.Context, userID string, tier models.Tier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.ensureLocked(userID)
	u.Subscription = tier
	m.users[userID] = u
	return nil
}

func (m *MemoryStore) AppendSavedSearch(_ context.Context, userID string, params models.SearchParams) ([]models.SearchParams, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLocked(userID)
	m.searches[userID] = append(m.searches[userID], params)
	return append([]models.SearchParams(nil), m.searches[userID]...), nil
}

func (m *MemoryStore) SavedSearches(_ context.Context, userID string) ([]models.SearchParams, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLocked(userID)
	return append([]models.SearchParams(nil), m.searches[userID]...), nil
}
