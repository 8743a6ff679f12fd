// Package grid persists a colony as a directory of marker files, one file
// per live cell.
//
// A marker is named cell_<x>_<y>.txt. Its existence means the cell is alive;
// the body is never read back.
package grid

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leapstack-labs/colony/pkg/life"
)

const (
	markerPrefix = "cell_"
	markerSuffix = ".txt"
	markerBody   = "alive"

	dirPerm  = 0750
	filePerm = 0644
)

// MarkerName returns the file name that encodes c.
func MarkerName(c life.Coord) string {
	return markerPrefix + strconv.Itoa(c.X) + "_" + strconv.Itoa(c.Y) + markerSuffix
}

// ParseMarkerName decodes a marker file name. ok is false for names that do
// not follow the cell_<x>_<y>.txt pattern, and for names that encode a cell
// in a form MarkerName would not write, such as cell_07_1.txt or
// cell_+1_2.txt. Such files are not live cells here, even though a looser
// integer parse would read them as one: the store could never remove them,
// since a death targets MarkerName(c). Doctor reports them as malformed.
func ParseMarkerName(name string) (c life.Coord, ok bool) {
	if !strings.HasPrefix(name, markerPrefix) || !strings.HasSuffix(name, markerSuffix) {
		return c, false
	}
	body := strings.TrimSuffix(strings.TrimPrefix(name, markerPrefix), markerSuffix)

	xs, ys, found := strings.Cut(body, "_")
	if !found {
		return c, false
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return c, false
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return c, false
	}
	c = life.Coord{X: x, Y: y}
	// Names such as cell_+1_07.txt decode, but removing the cell later would
	// target cell_1_7.txt and leave the original behind.
	if MarkerName(c) != name {
		return life.Coord{}, false
	}
	return c, true
}

// Store reads and writes the live set of a grid directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore returns a store rooted at dir. A nil logger discards output.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{dir: dir, logger: logger}
}

// Dir returns the grid directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the marker path for c.
func (s *Store) Path(c life.Coord) string {
	return filepath.Join(s.dir, MarkerName(c))
}

// Read returns every live cell in the grid directory. A missing directory is
// created and reads as an empty colony. Entries that are not valid markers
// are ignored.
func (s *Store) Read() (life.LiveSet, error) {
	alive, _, err := s.scan()
	return alive, err
}

// Malformed returns the names of entries that look like markers but cannot be
// decoded.
func (s *Store) Malformed() ([]string, error) {
	_, bad, err := s.scan()
	return bad, err
}

func (s *Store) scan() (life.LiveSet, []string, error) {
	if err := s.ensureDir(); err != nil {
		return nil, nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read grid directory %s: %w", s.dir, err)
	}

	alive := make(life.LiveSet)
	var malformed []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, markerPrefix) || !strings.HasSuffix(name, markerSuffix) {
			continue
		}
		c, ok := ParseMarkerName(name)
		if !ok {
			s.logger.Debug("skipping malformed marker", slog.String("name", name))
			malformed = append(malformed, name)
			continue
		}
		alive.Add(c)
	}

	s.logger.Debug("read grid", slog.String("dir", s.dir), slog.Int("alive", alive.Len()))
	return alive, malformed, nil
}

// ApplyDiff moves the directory from prev to next. Markers of cells that
// died are removed, markers of cells that were born are created, and
// survivors are left untouched. Applying the same diff twice is harmless.
//
// There is no rollback: if an operation fails the directory reflects the
// changes made before it.
func (s *Store) ApplyDiff(prev, next life.LiveSet) error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	d := life.Compare(prev, next)

	for _, c := range d.Died.Sorted() {
		if err := os.Remove(s.Path(c)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove marker %s: %w", s.Path(c), err)
		}
	}
	for _, c := range d.Born.Sorted() {
		if err := os.WriteFile(s.Path(c), []byte(markerBody), filePerm); err != nil {
			return fmt.Errorf("failed to write marker %s: %w", s.Path(c), err)
		}
	}

	s.logger.Debug("applied grid diff",
		slog.Int("born", d.Born.Len()),
		slog.Int("died", d.Died.Len()),
	)
	return nil
}

// Replace makes the directory hold exactly next and returns the set it held
// before.
func (s *Store) Replace(next life.LiveSet) (life.LiveSet, error) {
	prev, err := s.Read()
	if err != nil {
		return nil, err
	}
	if err := s.ApplyDiff(prev, next); err != nil {
		return prev, err
	}
	return prev, nil
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create grid directory %s: %w", s.dir, err)
	}
	return nil
}
