package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the production Postgres-backed implementation.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, ownerID string) (Preference, error) {
	q := `SELECT owner_id, theme, accent_color, created_at, updated_at
	      FROM user_preferences WHERE owner_id = $1`
	var p Preference
	err := s.db.QueryRow(ctx, q, ownerID).
		Scan(&p.OwnerID, &p.Theme, &p.AccentColor, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Preference{}, ErrNotFound
		}
		return Preference{}, fmt.Errorf("get preferences: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, p Preference) (Preference, error) {
	q := `
INSERT INTO user_preferences (owner_id, theme, accent_color, created_at, updated_at)
VALUES ($1, $2, $3, $4, $4)
ON CONFLICT (owner_id)
DO UPDATE SET
  theme        = EXCLUDED.theme,
  accent_color = EXCLUDED.accent_color,
  updated_at   = EXCLUDED.updated_at
RETURNING owner_id, theme, accent_color, created_at, updated_at`

	var out Preference
	err := s.db.QueryRow(ctx, q, p.OwnerID, p.Theme, p.AccentColor, p.UpdatedAt).
		Scan(&out.OwnerID, &out.Theme, &out.AccentColor, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return Preference{}, fmt.Errorf("upsert preferences: %w", err)
	}
	return out, nil
}
