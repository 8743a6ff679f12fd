package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite history store instance.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// NewSQLiteStoreWithDB wraps an already opened connection. The schema is not
// touched.
func NewSQLiteStoreWithDB(db *sql.DB, logger *slog.Logger) *SQLiteStore {
	s := NewSQLiteStore(logger)
	s.db = db
	return s
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// Every pooled connection to ":memory:" would get its own empty database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	if path != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	s.db = db
	s.path = path
	s.logger.Debug("opened history store", slog.String("path", path))
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// RecordGeneration stores g. ID and RecordedAt are filled in when empty.
func (s *SQLiteStore) RecordGeneration(ctx context.Context, g *Generation) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	if g.ID == "" {
		g.ID = generateID()
	}
	if g.RecordedAt.IsZero() {
		g.RecordedAt = time.Now().UTC()
	}

	s.logger.Debug("recording generation",
		slog.String("id", g.ID),
		slog.Int("generation", g.Generation),
		slog.Int("population", g.Population),
	)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generations (id, generation, recorded_at, population, born, died, grid_dir)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Generation, g.RecordedAt.UTC().Format(timeLayout), g.Population, g.Born, g.Died, g.GridDir,
	)
	if err != nil {
		return fmt.Errorf("failed to record generation: %w", err)
	}
	return nil
}

const selectGeneration = `SELECT id, generation, recorded_at, population, born, died, grid_dir FROM generations`

// LatestGeneration returns the most recently recorded generation, or nil
// when nothing has been recorded.
func (s *SQLiteStore) LatestGeneration(ctx context.Context) (*Generation, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRowContext(ctx, selectGeneration+` ORDER BY generation DESC, recorded_at DESC LIMIT 1`)
	g, err := scanGeneration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest generation: %w", err)
	}
	return g, nil
}

// ListGenerations returns up to limit generations, newest first. A limit of
// zero or less returns everything.
func (s *SQLiteStore) ListGenerations(ctx context.Context, limit int) ([]*Generation, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, selectGeneration+` ORDER BY generation DESC, recorded_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	defer rows.Close()

	var out []*Generation
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	return out, nil
}

// CountGenerations returns the number of recorded generations.
func (s *SQLiteStore) CountGenerations(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM generations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count generations: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGeneration(row scanner) (*Generation, error) {
	g := &Generation{}
	var recordedAt string
	if err := row.Scan(&g.ID, &g.Generation, &recordedAt, &g.Population, &g.Born, &g.Died, &g.GridDir); err != nil {
		return nil, err
	}
	t, err := time.Parse(timeLayout, recordedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid recorded_at %q: %w", recordedAt, err)
	}
	g.RecordedAt = t
	return g, nil
}
