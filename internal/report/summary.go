// Package report writes the human-facing outputs of a step: the summary
// sentence and the status block in the project README.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Summary holds the numbers reported after a generation.
type Summary struct {
	Generation int
	Born       int
	Died       int
	Population int
}

// Sentence returns the summary as prose.
func (s Summary) Sentence() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generation %d of the digital colony is here. ", s.Generation)
	fmt.Fprintf(&sb, "Today, %d new cells were born and %d cells passed away. ", s.Born, s.Died)
	fmt.Fprintf(&sb, "The total population now stands at %d living cells.", s.Population)
	if s.Population == 0 {
		sb.WriteString(" The colony has unfortunately collapsed and is now empty.")
	}
	return sb.String()
}

// WriteSummary overwrites path with the summary sentence.
func WriteSummary(path string, s Summary) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create summary directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(s.Sentence()), 0644); err != nil {
		return fmt.Errorf("failed to write summary %s: %w", path, err)
	}
	return nil
}
