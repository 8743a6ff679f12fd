// Package main provides tests for the colony CLI.
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/colony/internal/cli"
	"github.com/leapstack-labs/colony/internal/cli/config"
	"github.com/leapstack-labs/colony/internal/grid"
	"github.com/leapstack-labs/colony/pkg/life"
)

// newProject creates a colony project holding a horizontal blinker.
func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := "grid_dir: grid\nstate_path: .colony/state.db\n"
	if err := os.WriteFile(filepath.Join(dir, "colony.yaml"), []byte(cfg), 0644); err != nil {
		t.Fatalf("failed to write colony.yaml: %v", err)
	}
	store := grid.NewStore(filepath.Join(dir, "grid"), nil)
	blinker := life.NewLiveSet(life.Coord{X: 0, Y: 0}, life.Coord{X: 1, Y: 0}, life.Coord{X: 2, Y: 0})
	if _, err := store.Replace(blinker); err != nil {
		t.Fatalf("failed to seed grid: %v", err)
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	output, err := execute(t, "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(output, "Colony") {
		t.Errorf("version output should contain 'Colony', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	output, err := execute(t, "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	expectedCommands := []string{"step", "show", "watch", "seed", "patterns", "clear", "history", "doctor", "init"}
	for _, expected := range expectedCommands {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestDefaultCommandSteps(t *testing.T) {
	dir := newProject(t)

	output, err := execute(t, "--project-dir", dir, "--output", "json")
	if err != nil {
		t.Fatalf("step error = %v", err)
	}

	var result struct {
		Generation int      `json:"generation"`
		Population int      `json:"population"`
		Cells      [][2]int `json:"cells"`
	}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("step output is not JSON: %v\n%s", err, output)
	}
	if result.Generation != 1 || result.Population != 3 {
		t.Errorf("got generation %d population %d, want 1 and 3", result.Generation, result.Population)
	}

	for _, name := range []string{"cell_1_1.txt", "cell_1_0.txt", "cell_1_-1.txt"} {
		if _, err := os.Stat(filepath.Join(dir, "grid", name)); err != nil {
			t.Errorf("expected marker %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "grid", "cell_0_0.txt")); !os.IsNotExist(err) {
		t.Errorf("cell_0_0.txt should have been removed")
	}
}

func TestStepTwiceNumbersGenerations(t *testing.T) {
	dir := newProject(t)

	for i := 0; i < 2; i++ {
		if _, err := execute(t, "step", "--project-dir", dir, "--no-history"); err != nil {
			t.Fatalf("step %d error = %v", i+1, err)
		}
	}

	log, err := os.ReadFile(filepath.Join(dir, "life-log.md"))
	if err != nil {
		t.Fatalf("failed to read life log: %v", err)
	}
	if strings.Count(string(log), "| Generation |") != 1 {
		t.Errorf("life log header should be written once:\n%s", log)
	}
	if !strings.Contains(string(log), "| 2 | ") {
		t.Errorf("life log should contain generation 2:\n%s", log)
	}

	summary, err := os.ReadFile(filepath.Join(dir, "summary.txt"))
	if err != nil {
		t.Fatalf("failed to read summary: %v", err)
	}
	if !strings.HasPrefix(string(summary), "Generation 2 of the digital colony is here.") {
		t.Errorf("unexpected summary: %s", summary)
	}

	if _, err := os.Stat(filepath.Join(dir, ".colony", "state.db")); !os.IsNotExist(err) {
		t.Errorf("--no-history should not create the history database")
	}
}

func TestDryRunFlagOnRoot(t *testing.T) {
	dir := newProject(t)

	output, err := execute(t, "--project-dir", dir, "--dry-run")
	if err != nil {
		t.Fatalf("dry run error = %v", err)
	}
	if !strings.Contains(output, "(dry run)") {
		t.Errorf("output should mention the dry run, got: %s", output)
	}
	if _, err := os.Stat(filepath.Join(dir, "life-log.md")); !os.IsNotExist(err) {
		t.Errorf("dry run should not write the life log")
	}
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := "snapshot:\n  alive_glyph: \"|\"\n"
	if err := os.WriteFile(filepath.Join(dir, "colony.yaml"), []byte(cfg), 0644); err != nil {
		t.Fatalf("failed to write colony.yaml: %v", err)
	}

	_, err := execute(t, "show", "--project-dir", dir)
	if err == nil {
		t.Fatal("invalid config should return an error")
	}
	if !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCompletionCommand(t *testing.T) {
	shells := []string{"bash", "zsh", "fish", "powershell"}

	for _, shell := range shells {
		t.Run(shell, func(t *testing.T) {
			output, err := execute(t, "completion", shell)
			if err != nil {
				t.Errorf("completion %s command error = %v", shell, err)
			}
			if !strings.Contains(output, "colony") {
				t.Errorf("completion %s output should mention colony", shell)
			}
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, err := execute(t, "unknown-command"); err == nil {
		t.Error("unknown command should return an error")
	}
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
