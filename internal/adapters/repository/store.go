// Package repository defines the candidate value index and its errors. The
// index ranks every candidate in a catalog snapshot by projected value and
// serves the read API's listings.
package repository

import (
	"context"

	"github.com/dugout-io/dugout/internal/domain/model"
)

// Entry is one ranked row of the candidate index.
type Entry struct {
	Rank      int            `json:"rank"`
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	GroupID   string         `json:"group_id"`
	Position  model.Position `json:"position"`
	Price     model.Price    `json:"price"`
	Projected float64        `json:"projected"`
}

// Index provides ranked read access over one catalog snapshot. An Index is
// immutable once built; a catalog refresh builds a new one.
type Index interface {
	// TopN returns the top-N entries ordered by projected value desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Rank returns the rank and row for a candidate id.
	// Returns ErrNotFound for unknown ids.
	Rank(ctx context.Context, id string) (Entry, error)

	// Count returns the number of indexed candidates.
	Count(ctx context.Context) int

	// Version returns the catalog version the index was built from.
	Version() string
}
