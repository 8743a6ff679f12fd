package grid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/colony/internal/testutil"
	"github.com/leapstack-labs/colony/pkg/life"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "grid"), testutil.NewTestLogger(t))
}

func listNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestMarkerName_RoundTrip(t *testing.T) {
	coords := []life.Coord{
		{X: 0, Y: 0}, {X: 1, Y: 2}, {X: -1, Y: 0}, {X: 0, Y: -1}, {X: -15, Y: -42}, {X: 123456, Y: -7},
	}
	for _, c := range coords {
		t.Run(c.String(), func(t *testing.T) {
			name := MarkerName(c)
			got, ok := ParseMarkerName(name)
			require.True(t, ok, "failed to parse %q", name)
			assert.Equal(t, c, got)
		})
	}
}

func TestMarkerName_Format(t *testing.T) {
	assert.Equal(t, "cell_3_-4.txt", MarkerName(life.Coord{X: 3, Y: -4}))
}

func TestParseMarkerName_Rejects(t *testing.T) {
	names := []string{
		"cell_.txt",
		"cell_1.txt",
		"cell_a_b.txt",
		"cell_1_b.txt",
		"cell_1_2_3.txt",
		"cell_1_2.md",
		"cell_+1_2.txt",
		"cell_01_2.txt",
		"cell_07_1.txt",
		"tile_1_2.txt",
		"README.md",
		"",
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			_, ok := ParseMarkerName(name)
			assert.False(t, ok)
		})
	}
}

func TestStore_ReadCreatesMissingDir(t *testing.T) {
	s := newTestStore(t)

	alive, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, 0, alive.Len())

	info, err := os.Stat(s.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStore_ReadSkipsForeignEntries(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.Dir(), 0750))

	files := map[string]string{
		"cell_1_2.txt":    "alive",
		"cell_-3_-4.txt":  "",
		"cell_x_y.txt":    "alive",
		"notes.txt":       "hello",
		"cell_5_5.txt.sw": "",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), name), []byte(body), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(s.Dir(), "cell_9_9.txt"), 0750))

	alive, err := s.Read()
	require.NoError(t, err)
	assert.True(t, alive.Equal(life.NewLiveSet(life.Coord{X: 1, Y: 2}, life.Coord{X: -3, Y: -4})), "got %v", alive.Sorted())

	bad, err := s.Malformed()
	require.NoError(t, err)
	assert.Equal(t, []string{"cell_x_y.txt"}, bad)
}

func TestStore_ApplyDiff_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		prev life.LiveSet
		next life.LiveSet
	}{
		{
			name: "empty to empty",
			prev: life.NewLiveSet(),
			next: life.NewLiveSet(),
		},
		{
			name: "births only",
			prev: life.NewLiveSet(),
			next: life.NewLiveSet(life.Coord{X: 0, Y: 0}, life.Coord{X: -1, Y: 5}),
		},
		{
			name: "deaths only",
			prev: life.NewLiveSet(life.Coord{X: 0, Y: 0}, life.Coord{X: -1, Y: 5}),
			next: life.NewLiveSet(),
		},
		{
			name: "blinker step",
			prev: life.NewLiveSet(life.Coord{X: 0, Y: 0}, life.Coord{X: 1, Y: 0}, life.Coord{X: 2, Y: 0}),
			next: life.NewLiveSet(life.Coord{X: 1, Y: -1}, life.Coord{X: 1, Y: 0}, life.Coord{X: 1, Y: 1}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			require.NoError(t, s.ApplyDiff(life.NewLiveSet(), tt.prev))

			require.NoError(t, s.ApplyDiff(tt.prev, tt.next))

			got, err := s.Read()
			require.NoError(t, err)
			if d := cmp.Diff(tt.next.Sorted(), got.Sorted()); d != "" {
				t.Errorf("Read() after ApplyDiff mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestStore_ApplyDiff_Idempotent(t *testing.T) {
	s := newTestStore(t)
	prev := life.NewLiveSet(life.Coord{X: 0, Y: 0}, life.Coord{X: 1, Y: 0}, life.Coord{X: 2, Y: 0})
	next := life.Step(prev)
	require.NoError(t, s.ApplyDiff(life.NewLiveSet(), prev))

	require.NoError(t, s.ApplyDiff(prev, next))
	once := listNames(t, s.Dir())

	require.NoError(t, s.ApplyDiff(prev, next), "reapplying a diff must not fail on missing markers")
	twice := listNames(t, s.Dir())

	assert.ElementsMatch(t, once, twice)
	assert.ElementsMatch(t, []string{"cell_1_-1.txt", "cell_1_0.txt", "cell_1_1.txt"}, twice)
}

func TestStore_ApplyDiff_LeavesSurvivorsUntouched(t *testing.T) {
	s := newTestStore(t)
	survivor := life.Coord{X: 1, Y: 0}
	require.NoError(t, s.ApplyDiff(life.NewLiveSet(), life.NewLiveSet(survivor)))

	// A custom body proves the survivor was not rewritten.
	require.NoError(t, os.WriteFile(s.Path(survivor), []byte("custom"), 0644))

	require.NoError(t, s.ApplyDiff(
		life.NewLiveSet(survivor),
		life.NewLiveSet(survivor, life.Coord{X: 2, Y: 2}),
	))

	body, err := os.ReadFile(s.Path(survivor))
	require.NoError(t, err)
	assert.Equal(t, "custom", string(body))

	born, err := os.ReadFile(s.Path(life.Coord{X: 2, Y: 2}))
	require.NoError(t, err)
	assert.Equal(t, "alive", string(born))
}

func TestStore_ApplyDiff_LeavesForeignFiles(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.Dir(), 0750))
	foreign := filepath.Join(s.Dir(), "keep.me")
	require.NoError(t, os.WriteFile(foreign, []byte("x"), 0644))

	require.NoError(t, s.ApplyDiff(life.NewLiveSet(life.Coord{X: 0, Y: 0}), life.NewLiveSet()))

	_, err := os.Stat(foreign)
	assert.NoError(t, err)
}

func TestStore_Replace(t *testing.T) {
	s := newTestStore(t)
	first := life.NewLiveSet(life.Coord{X: 0, Y: 0}, life.Coord{X: 4, Y: 4})
	second := life.NewLiveSet(life.Coord{X: 4, Y: 4}, life.Coord{X: -2, Y: 3})

	prev, err := s.Replace(first)
	require.NoError(t, err)
	assert.Equal(t, 0, prev.Len())

	prev, err = s.Replace(second)
	require.NoError(t, err)
	assert.True(t, prev.Equal(first))

	got, err := s.Read()
	require.NoError(t, err)
	assert.True(t, got.Equal(second))
}

func TestStore_ApplyDiff_ReportsWriteErrors(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.Dir(), 0750))
	require.NoError(t, os.Chmod(s.Dir(), 0500))
	t.Cleanup(func() { _ = os.Chmod(s.Dir(), 0750) })

	err := s.ApplyDiff(life.NewLiveSet(), life.NewLiveSet(life.Coord{X: 0, Y: 0}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write marker")
}
