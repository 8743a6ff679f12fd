// Package chronicle maintains the life log: an append-only markdown table
// with one row per generation.
//
// The generation number is not stored anywhere else. It is recovered by
// counting the data rows already present in the log.
package chronicle

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leapstack-labs/colony/pkg/life"
)

const (
	headerRow    = "| Generation | Date | Population | Snapshot |"
	separatorRow = "|------------|------|------------|----------|"

	headerPrefix    = "| Generation"
	separatorPrefix = "|------------"

	dateLayout = "2006-01-02"
)

// Entry is one row of the life log.
type Entry struct {
	Generation int
	Date       time.Time
	Alive      int
	Snapshot   []string
}

// Format renders the entry as it appears in the log, including the trailing
// newline.
func (e Entry) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "| %d | %s | Alive: %d | \n", e.Generation, e.Date.Format(dateLayout), e.Alive)
	sb.WriteString("```\n")
	sb.WriteString(strings.Join(e.Snapshot, "\n"))
	sb.WriteString("\n``` |\n")
	return sb.String()
}

// Options control how snapshots are drawn.
type Options struct {
	Margin     int
	AliveGlyph rune
	DeadGlyph  rune
}

// DefaultOptions draws with a two-cell margin and the standard glyphs.
func DefaultOptions() Options {
	return Options{Margin: 2, AliveGlyph: life.AliveGlyph, DeadGlyph: life.DeadGlyph}
}

// Snapshot draws next inside the frame of prev: the extent of the previous
// generation grown by the margin, or the default box when prev is empty.
// Every cell of next lies within one cell of a cell of prev, so the frame
// uses a margin of at least one and the whole new generation stays visible.
func (o Options) Snapshot(prev, next life.LiveSet) []string {
	margin := max(o.Margin, 1)
	return life.RenderRows(next, life.Frame(prev, margin), o.AliveGlyph, o.DeadGlyph)
}

// Log is a life log file.
type Log struct {
	path string
}

// New returns the log stored at path.
func New(path string) *Log {
	return &Log{path: path}
}

// Path returns the log file path.
func (l *Log) Path() string {
	return l.path
}

// CountGenerations returns the number of generation rows already written. A
// missing log counts as zero.
func (l *Log) CountGenerations() (int, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to open life log %s: %w", l.path, err)
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if isDataRow(scanner.Text()) {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to read life log %s: %w", l.path, err)
	}
	return count, nil
}

func isDataRow(line string) bool {
	return strings.HasPrefix(line, "|") &&
		!strings.HasPrefix(line, headerPrefix) &&
		!strings.HasPrefix(line, separatorPrefix)
}

// NextGeneration returns the number the next appended row should carry.
func (l *Log) NextGeneration() (int, error) {
	n, err := l.CountGenerations()
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

// Append adds an entry to the log, writing the table header first when the
// log does not exist yet.
func (l *Log) Append(e Entry) error {
	if dir := filepath.Dir(l.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create life log directory: %w", err)
		}
	}

	_, statErr := os.Stat(l.path)
	fresh := errors.Is(statErr, fs.ErrNotExist)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open life log %s: %w", l.path, err)
	}

	var sb strings.Builder
	if fresh {
		sb.WriteString(headerRow + "\n" + separatorRow + "\n")
	}
	sb.WriteString(e.Format())

	if _, err := f.WriteString(sb.String()); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to append to life log %s: %w", l.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close life log %s: %w", l.path, err)
	}
	return nil
}
