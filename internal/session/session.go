// Package session keeps the per-session chat context: the ingredients from the
// latest upload and a description of the dish last asked for.
package session

import (
	"context"
	"slices"
)

// DefaultID is used when a request does not name a session.
const DefaultID = "default"

// Snapshot is an immutable view of one session. Stores never hand out a
// Snapshot that a later write can modify.
type Snapshot struct {
	Ingredients []string `json:"ingredients"`
	Dish        string   `json:"dish"`
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{Ingredients: slices.Clone(s.Ingredients), Dish: s.Dish}
}

// Store is keyed by session id. An unknown id reads as the zero Snapshot.
type Store interface {
	Get(ctx context.Context, id string) (Snapshot, error)
	SetIngredients(ctx context.Context, id string, names []string) error
	SetDish(ctx context.Context, id string, dish string) error
}
