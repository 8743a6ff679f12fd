// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/colony/internal/cli/output"
	"github.com/leapstack-labs/colony/internal/grid"
	"github.com/leapstack-labs/colony/internal/report"
	"github.com/leapstack-labs/colony/pkg/life"
)

// ProjectConfig is the colony.yaml written by SetupTestProject. History is
// kept in the project so tests never share a database.
const ProjectConfig = `grid_dir: grid
log_path: life-log.md
summary_path: summary.txt
readme_path: README.md
state_path: .colony/state.db
history: true
snapshot:
  margin: 2
  alive_glyph: "#"
  dead_glyph: "."
`

// SetupTestProject creates a temporary colony project holding the given live
// cells and returns its root.
func SetupTestProject(t *testing.T, cells ...life.Coord) string {
	t.Helper()

	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, "colony.yaml"), []byte(ProjectConfig), 0644); err != nil {
		t.Fatalf("failed to create colony.yaml: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "README.md"), []byte(report.Template("Test Colony")), 0644); err != nil {
		t.Fatalf("failed to create README.md: %v", err)
	}

	store := grid.NewStore(filepath.Join(tmpDir, "grid"), nil)
	if _, err := store.Replace(life.NewLiveSet(cells...)); err != nil {
		t.Fatalf("failed to seed grid: %v", err)
	}

	return tmpDir
}

// Blinker returns the horizontal blinker at the origin.
func Blinker() []life.Coord {
	return []life.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
}

// ReadFile returns the content of a file under dir.
func ReadFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(data)
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the combined stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
