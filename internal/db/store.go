package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/david/grants-agent/internal/models"
)

// Store is the Postgres-backed entitlement repository. It implements
// store.Repository so it can be swapped in for the in-memory default by
// setting DATABASE_URL.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Ensure(ctx context.Context, userID string) (models.User, error) {
	if _, err := s.pool.Exec(ctx, `
		INSERT INTO users (user_id, subscription)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, models.TierFree); err != nil {
		return models.User{}, fmt.Errorf("ensuring user %s: %w", userID, err)
	}

	var u models.User
	err := s.pool.QueryRow(ctx,
		"SELECT user_id, subscription, created_at FROM users WHERE user_id = $1", userID,
	).Scan(&u.UserID, &u.Subscription, &u.CreatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("fetching user %s: %w", userID, err)
	}
	return u, nil
}

func (s *Store) SetTier(ctx context.Context, userID string, tier models.Tier) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (user_id, subscription)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET subscription = EXCLUDED.subscription
	`, userID, tier)
	if err != nil {
		return fmt.Errorf("setting tier for %s: %w", userID, err)
	}
	return nil
}

func (s *Store) AppendSavedSearch(ctx context.Context, userID string, params models.SearchParams) ([]models.SearchParams, error) {
	if _, err := s.Ensure(ctx, userID); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encoding search params: %w", err)
	}
	if _, err := s.pool.Exec(ctx,
		"INSERT INTO saved_searches (user_id, params) VALUES ($1, $2)", userID, payload,
	); err != nil {
		return nil, fmt.Errorf("appending saved search for %s: %w", userID, err)
	}

	return s.SavedSearches(ctx, userID)
}

func (s *Store) SavedSearches(ctx context.Context, userID string) ([]models.SearchParams, error) {
	if _, err := s.Ensure(ctx, userID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		"SELECT params FROM saved_searches WHERE user_id = $1 ORDER BY id", userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing saved searches for %s: %w", userID, err)
	}
	defer rows.Close()

	var out []models.SearchParams
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var p models.SearchParams
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("decoding saved search: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
