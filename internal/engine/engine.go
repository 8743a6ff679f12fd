// Package engine drives a colony: it reads the grid, computes the next
// generation, writes the grid back and records the step in the life log,
// the summary file, the README and the history store.
package engine

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/leapstack-labs/colony/internal/chronicle"
	"github.com/leapstack-labs/colony/internal/grid"
	"github.com/leapstack-labs/colony/internal/report"
	"github.com/leapstack-labs/colony/internal/state"
	"github.com/leapstack-labs/colony/pkg/life"
)

// Engine advances a colony one generation at a time.
type Engine struct {
	logger *slog.Logger
	now    func() time.Time

	grid        *grid.Store
	log         *chronicle.Log
	snapshot    chronicle.Options
	summaryPath string
	readme      *report.Readme
	store       state.Store
}

// Config holds engine configuration.
type Config struct {
	// GridDir is the directory of marker files
	GridDir string
	// LogPath is the life log markdown file
	LogPath string
	// SummaryPath is overwritten with the summary sentence after each step
	SummaryPath string
	// ReadmePath is the README whose status block is refreshed (optional)
	ReadmePath  string
	StartMarker string
	EndMarker   string
	// StatePath is the SQLite history database. Empty disables history.
	StatePath string
	// Snapshot controls the life log drawing
	Snapshot chronicle.Options
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
	// Clock returns the current time (optional, defaults to time.Now)
	Clock func() time.Time
}

// New creates an engine. When a state path is configured the history store
// is opened and migrated.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	snapshot := cfg.Snapshot
	if snapshot.AliveGlyph == 0 && snapshot.DeadGlyph == 0 {
		snapshot = chronicle.DefaultOptions()
	}

	logger.Debug("initializing engine",
		slog.String("grid_dir", cfg.GridDir),
		slog.String("log_path", cfg.LogPath),
		slog.Bool("history", cfg.StatePath != ""),
	)

	e := &Engine{
		logger:      logger,
		now:         clock,
		grid:        grid.NewStore(cfg.GridDir, logger),
		log:         chronicle.New(cfg.LogPath),
		snapshot:    snapshot,
		summaryPath: cfg.SummaryPath,
	}

	if cfg.ReadmePath != "" {
		e.readme = &report.Readme{
			Path:        cfg.ReadmePath,
			StartMarker: cfg.StartMarker,
			EndMarker:   cfg.EndMarker,
		}
	}

	if cfg.StatePath != "" {
		store, err := openHistory(cfg.StatePath, logger)
		if err != nil {
			return nil, err
		}
		e.store = store
	}

	return e, nil
}

// NewWithStore creates an engine that records history in the given store
// instead of opening one.
func NewWithStore(cfg Config, store state.Store) (*Engine, error) {
	cfg.StatePath = ""
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	e.store = store
	return e, nil
}

func openHistory(path string, logger *slog.Logger) (*state.SQLiteStore, error) {
	if dir := filepath.Dir(path); path != ":memory:" && dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLiteStore(logger)
	if err := store.Open(path); err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate history store: %w", err)
	}
	return store, nil
}

// Close releases the history store.
func (e *Engine) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

// Grid returns the grid store.
func (e *Engine) Grid() *grid.Store {
	return e.grid
}

// Log returns the life log.
func (e *Engine) Log() *chronicle.Log {
	return e.log
}

// History returns the history store, or nil when history is disabled.
func (e *Engine) History() state.Store {
	return e.store
}

// Current reads the live cells currently on disk.
func (e *Engine) Current() (life.LiveSet, error) {
	return e.grid.Read()
}

// Seed replaces the colony with cells and returns what was there before.
func (e *Engine) Seed(cells life.LiveSet) (life.LiveSet, error) {
	e.logger.Info("seeding colony", slog.Int("cells", cells.Len()))
	return e.grid.Replace(cells)
}

// Clear removes every live cell and returns how many there were.
func (e *Engine) Clear() (int, error) {
	prev, err := e.grid.Replace(life.NewLiveSet())
	if err != nil {
		return 0, err
	}
	return prev.Len(), nil
}
