package state

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/colony/internal/testutil"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(filepath.Join(t.TempDir(), "state.db")))
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate())
	return store
}

func TestSQLiteStore_OpenClose(t *testing.T) {
	store := NewSQLiteStore(nil)

	require.NoError(t, store.Open(filepath.Join(t.TempDir(), "state.db")))
	require.NoError(t, store.Close())
}

func TestSQLiteStore_Migrate(t *testing.T) {
	store := setupTestStore(t)

	version, err := store.GetMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	// Running again is a no-op.
	require.NoError(t, store.Migrate())

	rows, err := store.db.Query("SELECT grid_dir FROM generations LIMIT 1")
	require.NoError(t, err)
	rows.Close()
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore(nil)
	ctx := context.Background()

	assert.Error(t, store.RecordGeneration(ctx, &Generation{}))
	_, err := store.LatestGeneration(ctx)
	assert.Error(t, err)
	_, err = store.ListGenerations(ctx, 5)
	assert.Error(t, err)
	_, err = store.CountGenerations(ctx)
	assert.Error(t, err)
	_, err = store.PruneGenerations(ctx, 1)
	assert.Error(t, err)
	assert.Error(t, store.Migrate())
	assert.NoError(t, store.Close())
}

func TestSQLiteStore_GenerationLifecycle(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T, store *SQLiteStore)
		verify func(t *testing.T, store *SQLiteStore)
	}{
		{
			name:  "empty store",
			setup: func(*testing.T, *SQLiteStore) {},
			verify: func(t *testing.T, store *SQLiteStore) {
				latest, err := store.LatestGeneration(context.Background())
				require.NoError(t, err)
				assert.Nil(t, latest)

				n, err := store.CountGenerations(context.Background())
				require.NoError(t, err)
				assert.Equal(t, 0, n)
			},
		},
		{
			name: "record fills id and time",
			setup: func(t *testing.T, store *SQLiteStore) {
				g := &Generation{Generation: 1, Population: 3, Born: 3, GridDir: "grid"}
				require.NoError(t, store.RecordGeneration(context.Background(), g))
				assert.NotEmpty(t, g.ID)
				assert.False(t, g.RecordedAt.IsZero())
			},
			verify: func(t *testing.T, store *SQLiteStore) {
				latest, err := store.LatestGeneration(context.Background())
				require.NoError(t, err)
				require.NotNil(t, latest)
				assert.Equal(t, 1, latest.Generation)
				assert.Equal(t, 3, latest.Population)
				assert.Equal(t, 3, latest.Born)
				assert.Equal(t, 0, latest.Died)
				assert.Equal(t, "grid", latest.GridDir)
			},
		},
		{
			name: "latest is highest generation",
			setup: func(t *testing.T, store *SQLiteStore) {
				base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
				for _, n := range []int{2, 5, 3} {
					require.NoError(t, store.RecordGeneration(context.Background(), &Generation{
						Generation: n,
						RecordedAt: base.Add(time.Duration(n) * time.Hour),
						Population: n * 10,
					}))
				}
			},
			verify: func(t *testing.T, store *SQLiteStore) {
				latest, err := store.LatestGeneration(context.Background())
				require.NoError(t, err)
				require.NotNil(t, latest)
				assert.Equal(t, 5, latest.Generation)
				assert.Equal(t, 50, latest.Population)
				assert.Equal(t, time.Date(2026, 1, 1, 5, 0, 0, 0, time.UTC), latest.RecordedAt)
			},
		},
		{
			name: "list respects limit and order",
			setup: func(t *testing.T, store *SQLiteStore) {
				for n := 1; n <= 4; n++ {
					require.NoError(t, store.RecordGeneration(context.Background(), &Generation{Generation: n}))
				}
			},
			verify: func(t *testing.T, store *SQLiteStore) {
				list, err := store.ListGenerations(context.Background(), 2)
				require.NoError(t, err)
				require.Len(t, list, 2)
				assert.Equal(t, 4, list[0].Generation)
				assert.Equal(t, 3, list[1].Generation)

				all, err := store.ListGenerations(context.Background(), 0)
				require.NoError(t, err)
				assert.Len(t, all, 4)

				n, err := store.CountGenerations(context.Background())
				require.NoError(t, err)
				assert.Equal(t, 4, n)
			},
		},
		{
			name: "prune keeps newest",
			setup: func(t *testing.T, store *SQLiteStore) {
				for n := 1; n <= 5; n++ {
					require.NoError(t, store.RecordGeneration(context.Background(), &Generation{Generation: n}))
				}
				deleted, err := store.PruneGenerations(context.Background(), 2)
				require.NoError(t, err)
				assert.Equal(t, 3, deleted)
			},
			verify: func(t *testing.T, store *SQLiteStore) {
				list, err := store.ListGenerations(context.Background(), 0)
				require.NoError(t, err)
				require.Len(t, list, 2)
				assert.Equal(t, 5, list[0].Generation)
				assert.Equal(t, 4, list[1].Generation)

				deleted, err := store.PruneGenerations(context.Background(), 0)
				require.NoError(t, err)
				assert.Equal(t, 2, deleted)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupTestStore(t)
			tt.setup(t, store)
			tt.verify(t, store)
		})
	}
}

func TestSQLiteStore_RecordGeneration_ExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO generations").WillReturnError(errors.New("disk I/O error"))

	store := NewSQLiteStoreWithDB(db, testutil.NewTestLogger(t))
	err = store.RecordGeneration(context.Background(), &Generation{Generation: 1})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record generation")
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_LatestGeneration_BadTimestamp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "generation", "recorded_at", "population", "born", "died", "grid_dir"}).
		AddRow("abc", 1, "yesterday", 3, 3, 0, "grid")
	mock.ExpectQuery("SELECT id, generation").WillReturnRows(rows)

	store := NewSQLiteStoreWithDB(db, nil)
	_, err = store.LatestGeneration(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid recorded_at")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_PruneGenerations_Errors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewSQLiteStoreWithDB(db, nil)

	_, err = store.PruneGenerations(context.Background(), -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be negative")

	mock.ExpectExec("DELETE FROM generations").WillReturnError(errors.New("database is locked"))
	_, err = store.PruneGenerations(context.Background(), 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to prune generations")
	assert.NoError(t, mock.ExpectationsWereMet())
}
