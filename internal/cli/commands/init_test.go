package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/colony/internal/cli/config"
	"github.com/leapstack-labs/colony/internal/grid"
	"github.com/leapstack-labs/colony/internal/pattern"
)

func execInit(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := NewInitCommand()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
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

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string) // setup before running
		args      []string
		wantErr   string
		wantFiles []string
	}{
		{
			name: "init empty directory",
			wantFiles: []string{
				"colony.yaml",
				"grid",
				"README.md",
				".gitignore",
				"patterns/spaceships.yaml",
			},
		},
		{
			name: "init existing config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "colony.yaml"), []byte("existing"), 0600)
			},
			wantErr: "colony.yaml already exists",
		},
		{
			name: "init existing config with force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "colony.yaml"), []byte("existing"), 0600)
			},
			args: []string{"--force"},
			wantFiles: []string{
				"colony.yaml",
				"grid",
			},
		},
		{
			name:    "init with unknown pattern",
			args:    []string{"--pattern", "nope"},
			wantErr: `unknown pattern "nope"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			_, err := execInit(t, append([]string{tmpDir}, tt.args...)...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			for _, f := range tt.wantFiles {
				_, err := os.Stat(filepath.Join(tmpDir, f))
				assert.False(t, os.IsNotExist(err), "expected file/dir %q to exist", f)
			}
		})
	}
}

func TestInitCreatesValidConfig(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := execInit(t, tmpDir)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(tmpDir, "colony.yaml"))
	require.NoError(t, err, "failed to read colony.yaml")

	expectedContents := []string{
		"grid_dir: grid",
		"log_path: life-log.md",
		"state_path: .colony/state.db",
		"history: true",
		"margin: 2",
	}
	for _, expected := range expectedContents {
		assert.Contains(t, string(content), expected, "config should contain %q", expected)
	}

	config.ResetConfig()
	flags := newProjectFlags(t, tmpDir)
	cfg, err := config.LoadConfig("", flags)
	require.NoError(t, err, "generated config should load")
	assert.Equal(t, filepath.Join(tmpDir, "grid"), cfg.GridDir)

	readme, err := os.ReadFile(filepath.Join(tmpDir, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "<!-- LATEST_STATUS_START -->")
	assert.Contains(t, string(readme), filepath.Base(tmpDir))
}

func TestInitCommand_Pattern(t *testing.T) {
	tmpDir := t.TempDir()

	out, err := execInit(t, tmpDir, "--pattern", "glider")
	require.NoError(t, err)
	assert.Contains(t, out, "glider, 5 cells")

	cur, err := grid.NewStore(filepath.Join(tmpDir, "grid"), nil).Read()
	require.NoError(t, err)
	glider, _ := pattern.Builtin("glider")
	assert.True(t, cur.Equal(glider.LiveSet()))
}

func TestInitCommand_KeepsExistingReadme(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "README.md"), []byte("# Mine\n"), 0644))

	_, err := execInit(t, tmpDir)
	require.NoError(t, err)

	readme, err := os.ReadFile(filepath.Join(tmpDir, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Mine\n", string(readme))
}
