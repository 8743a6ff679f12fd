package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/colony/internal/cli/config"
	"github.com/leapstack-labs/colony/internal/cli/output"
	clitest "github.com/leapstack-labs/colony/internal/cli/testutil"
	"github.com/leapstack-labs/colony/internal/engine"
	"github.com/leapstack-labs/colony/internal/grid"
	"github.com/leapstack-labs/colony/internal/report"
	"github.com/leapstack-labs/colony/pkg/life"
)

func TestStepCommand_Markdown(t *testing.T) {
	dir := clitest.SetupTestProject(t, clitest.Blinker()...)

	out, _, err := runInProject(t, dir, nil, NewStepCommand())
	require.NoError(t, err)

	assert.Contains(t, out, "# Generation 1")
	assert.Contains(t, out, "**Population:** 3")
	assert.Contains(t, out, "...#...")
	assert.Contains(t, out, "Generation 1 of the digital colony is here.")
	clitest.AssertValidMarkdown(t, out)
	clitest.AssertNoANSI(t, out)

	logText := clitest.ReadFile(t, dir, "life-log.md")
	assert.Contains(t, logText, "| Generation |")
	assert.Contains(t, logText, "Alive: 3")

	summary := clitest.ReadFile(t, dir, "summary.txt")
	assert.Contains(t, summary, "2 new cells were born")

	readme := clitest.ReadFile(t, dir, "README.md")
	assert.Contains(t, readme, "*Generation 1 of the digital colony is here.")
}

func TestStepCommand_JSON(t *testing.T) {
	dir := clitest.SetupTestProject(t, clitest.Blinker()...)

	out, _, err := runInProject(t, dir, jsonOutput, NewStepCommand())
	require.NoError(t, err)

	var got output.StepOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 1, got.Generation)
	assert.Equal(t, 3, got.Population)
	assert.Equal(t, [][2]int{{1, 1}, {1, 0}, {1, -1}}, got.Cells)
	assert.Equal(t, [][2]int{{1, 1}, {1, -1}}, got.BornCells)
	assert.Equal(t, [][2]int{{0, 0}, {2, 0}}, got.DiedCells)
	assert.Equal(t, &output.BoundsOut{MinX: 1, MaxX: 1, MinY: -1, MaxY: 1}, got.Bounds)
	assert.True(t, got.ReadmeUpdated)
	assert.False(t, got.DryRun)
}

func TestStepCommand_DryRun(t *testing.T) {
	dir := clitest.SetupTestProject(t, clitest.Blinker()...)

	out, _, err := runInProject(t, dir, nil, NewStepCommand(), "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "# Generation 1 (dry run)")

	cur, err := grid.NewStore(filepath.Join(dir, "grid"), nil).Read()
	require.NoError(t, err)
	assert.True(t, cur.Equal(life.NewLiveSet(clitest.Blinker()...)))

	_, err = os.Stat(filepath.Join(dir, "life-log.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestStepCommand_NoHistory(t *testing.T) {
	dir := clitest.SetupTestProject(t, clitest.Blinker()...)

	_, _, err := runInProject(t, dir, func(c *config.Config) { c.History = false }, NewStepCommand())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".colony", "state.db"))
	assert.True(t, os.IsNotExist(err), "history database must not be created")
}

func TestStepText(t *testing.T) {
	res := &engine.StepResult{
		Generation:    4,
		Summary:       report.Summary{Generation: 4, Population: 1},
		Snapshot:      []string{"...", ".#.", "..."},
		ReadmeUpdated: true,
	}

	tr := clitest.NewTestRenderer(output.ModeText, false)
	stepText(tr.Renderer, res)

	assert.Contains(t, tr.Output(), "Generation 4\n")
	assert.Contains(t, tr.Output(), "...\n.#.\n...\n")
	assert.Contains(t, tr.Output(), "README status updated")
	assert.Empty(t, tr.ErrorOutput())
}
