package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
)

// Default README markers.
const (
	DefaultStartMarker = "<!-- LATEST_STATUS_START -->"
	DefaultEndMarker   = "<!-- LATEST_STATUS_END -->"

	timestampLayout = "2006-01-02 15:04"
)

// Readme refreshes the status block of a README file.
type Readme struct {
	Path        string
	StartMarker string
	EndMarker   string
}

// NewReadme returns a Readme using the default markers.
func NewReadme(path string) *Readme {
	return &Readme{Path: path, StartMarker: DefaultStartMarker, EndMarker: DefaultEndMarker}
}

// Update replaces the text between the markers with the sentence and a
// timestamp. It reports false without error when the file or either marker
// is missing.
func (r *Readme) Update(sentence string, now time.Time) (bool, error) {
	data, err := os.ReadFile(r.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read README %s: %w", r.Path, err)
	}

	updated, ok := ReplaceBlock(string(data), r.StartMarker, r.EndMarker, StatusBlock(sentence, now))
	if !ok {
		return false, nil
	}

	info, err := os.Stat(r.Path)
	if err != nil {
		return false, fmt.Errorf("failed to stat README %s: %w", r.Path, err)
	}
	if err := os.WriteFile(r.Path, []byte(updated), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("failed to write README %s: %w", r.Path, err)
	}
	return true, nil
}

// HasMarkers reports whether the README exists and carries both markers in
// order.
func (r *Readme) HasMarkers() (bool, error) {
	data, err := os.ReadFile(r.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read README %s: %w", r.Path, err)
	}
	_, ok := ReplaceBlock(string(data), r.StartMarker, r.EndMarker, "")
	return ok, nil
}

// StatusBlock formats the text placed between the README markers.
func StatusBlock(sentence string, now time.Time) string {
	return fmt.Sprintf("\n*%s (%s)*\n", sentence, now.Format(timestampLayout))
}

// ReplaceBlock swaps the text between the first start marker and the first
// end marker after it. ok is false when either marker is missing.
func ReplaceBlock(content, start, end, inner string) (string, bool) {
	before, rest, found := strings.Cut(content, start)
	if !found {
		return content, false
	}
	_, after, found := strings.Cut(rest, end)
	if !found {
		return content, false
	}
	return before + start + inner + end + after, true
}

// Template returns a minimal README carrying empty status markers.
func Template(title string) string {
	return fmt.Sprintf("# %s\n\nA Game of Life colony that advances one generation per run.\n\n## Latest status\n\n%s\n%s\n",
		title, DefaultStartMarker, DefaultEndMarker)
}
