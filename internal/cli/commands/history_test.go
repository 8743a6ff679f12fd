package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/colony/internal/cli/config"
	"github.com/leapstack-labs/colony/internal/cli/output"
	clitest "github.com/leapstack-labs/colony/internal/cli/testutil"
)

func TestHistoryCommand(t *testing.T) {
	dir := clitest.SetupTestProject(t, clitest.Blinker()...)

	for i := 0; i < 2; i++ {
		_, _, err := runInProject(t, dir, nil, NewStepCommand())
		require.NoError(t, err)
	}

	t.Run("json newest first", func(t *testing.T) {
		out, _, err := runInProject(t, dir, jsonOutput, NewHistoryCommand())
		require.NoError(t, err)

		var got output.HistoryOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, 2, got.Total)
		require.Len(t, got.Generations, 2)
		assert.Equal(t, 2, got.Generations[0].Generation)
		assert.Equal(t, 1, got.Generations[1].Generation)
		assert.Equal(t, 3, got.Generations[0].Population)
		assert.Equal(t, 2, got.Generations[0].Born)
		assert.Equal(t, 2, got.Generations[0].Died)
	})

	t.Run("limit", func(t *testing.T) {
		out, _, err := runInProject(t, dir, jsonOutput, NewHistoryCommand(), "-n", "1")
		require.NoError(t, err)

		var got output.HistoryOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, 2, got.Total)
		require.Len(t, got.Generations, 1)
		assert.Equal(t, 2, got.Generations[0].Generation)
	})

	t.Run("markdown table", func(t *testing.T) {
		out, _, err := runInProject(t, dir, nil, NewHistoryCommand())
		require.NoError(t, err)
		assert.Contains(t, out, "# History")
		assert.Contains(t, out, "Showing 2 of 2 generations")
	})
}

func TestHistoryCommand_Prune(t *testing.T) {
	dir := clitest.SetupTestProject(t, clitest.Blinker()...)

	for i := 0; i < 3; i++ {
		_, _, err := runInProject(t, dir, nil, NewStepCommand())
		require.NoError(t, err)
	}

	out, _, err := runInProject(t, dir, nil, NewHistoryCommand(), "--prune", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Pruned 2 generations")
	assert.Contains(t, out, "Showing 1 of 1 generations")

	out, _, err = runInProject(t, dir, jsonOutput, NewHistoryCommand())
	require.NoError(t, err)
	var got output.HistoryOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Generations, 1)
	assert.Equal(t, 3, got.Generations[0].Generation)
}

func TestHistoryCommand_Empty(t *testing.T) {
	dir := clitest.SetupTestProject(t)

	out, _, err := runInProject(t, dir, nil, NewHistoryCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "No generations recorded yet")
}

func TestHistoryCommand_Disabled(t *testing.T) {
	dir := clitest.SetupTestProject(t)

	_, _, err := runInProject(t, dir, func(c *config.Config) { c.History = false }, NewHistoryCommand())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history is disabled")
}
