package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vbonduro/recipelens/internal/session"
)

// SessionStore persists session state in the sessions table. Each setter is a
// single upsert touching one column, so concurrent writers never clobber the
// other field.
type SessionStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db, now: time.Now}
}

func (s *SessionStore) Get(ctx context.Context, id string) (session.Snapshot, error) {
	var raw, dish string
	err := s.db.QueryRowContext(ctx, `
		SELECT ingredients, dish FROM sessions WHERE id = ?
	`, id).Scan(&raw, &dish)

	if errors.Is(err, sql.ErrNoRows) {
		return session.Snapshot{}, nil
	}
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("failed to get session: %w", err)
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return session.Snapshot{}, fmt.Errorf("failed to decode session ingredients: %w", err)
	}
	if len(names) == 0 {
		names = nil
	}
	return session.Snapshot{Ingredients: names, Dish: dish}, nil
}

func (s *SessionStore) SetIngredients(ctx context.Context, id string, names []string) error {
	if names == nil {
		names = []string{}
	}
	raw, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to encode session ingredients: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, ingredients, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			ingredients = excluded.ingredients,
			updated_at  = excluded.updated_at
	`, id, string(raw), s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save session ingredients: %w", err)
	}
	return nil
}

func (s *SessionStore) SetDish(ctx context.Context, id string, dish string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, dish, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			dish       = excluded.dish,
			updated_at = excluded.updated_at
	`, id, dish, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save session dish: %w", err)
	}
	return nil
}

// DeleteIdleSince removes sessions not written since cutoff and reports how
// many went.
func (s *SessionStore) DeleteIdleSince(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM sessions WHERE updated_at < ?
	`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to delete idle sessions: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
