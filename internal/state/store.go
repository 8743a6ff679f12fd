// Package state records the history of generations in SQLite.
//
// The life log stays the authority for generation numbering. The history
// store is a queryable side record used by the history and doctor commands.
package state

import (
	"context"
	"time"
)

// Generation is one recorded step.
type Generation struct {
	ID         string
	Generation int
	RecordedAt time.Time
	Population int
	Born       int
	Died       int
	GridDir    string
}

// Store is the history persistence interface.
type Store interface {
	RecordGeneration(ctx context.Context, g *Generation) error
	LatestGeneration(ctx context.Context) (*Generation, error)
	ListGenerations(ctx context.Context, limit int) ([]*Generation, error)
	CountGenerations(ctx context.Context) (int, error)
	PruneGenerations(ctx context.Context, keep int) (int, error)
	Close() error
}

var _ Store = (*SQLiteStore)(nil)
