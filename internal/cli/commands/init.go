package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	intconfig "github.com/leapstack-labs/colony/internal/config"
	"github.com/leapstack-labs/colony/internal/grid"
	"github.com/leapstack-labs/colony/internal/pattern"
	"github.com/leapstack-labs/colony/internal/report"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Force   bool
	Pattern string
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	opts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new colony project",
		Long: `Initialize a new colony project with the default layout and configuration.

This creates:
  - colony.yaml configuration file
  - grid/ directory for the live cell markers
  - README.md with the status markers refreshed by every step
  - patterns/ with an example pattern file
  - .gitignore excluding the history database`,
		Example: `  # Initialize in current directory
  colony init

  # Initialize in a new directory with a glider
  colony init my-colony --pattern glider

  # Force overwrite existing config
  colony init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite existing files")
	cmd.Flags().StringVar(&opts.Pattern, "pattern", "", "Seed the new colony with a pattern")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, opts *InitOptions) error {
	r := NewCommandContextWithoutEngine(cmd).Renderer

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, intconfig.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !opts.Force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", intconfig.ConfigFileName)
	}

	var seed *pattern.Pattern
	if opts.Pattern != "" {
		p, err := pattern.Resolve(opts.Pattern)
		if err != nil {
			return err
		}
		seed = &p
	}

	cfg := intconfig.Default()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}
	r.StatusLine(intconfig.ConfigFileName, "success", "")

	store := grid.NewStore(filepath.Join(dir, cfg.GridDir), nil)
	if seed != nil {
		if _, err := store.Replace(seed.LiveSet()); err != nil {
			return fmt.Errorf("failed to seed colony: %w", err)
		}
		r.StatusLine(cfg.GridDir+"/", "success", fmt.Sprintf("%s, %d cells", seed.Name, len(seed.Cells)))
	} else {
		if _, err := store.Read(); err != nil {
			return fmt.Errorf("failed to create grid directory: %w", err)
		}
		r.StatusLine(cfg.GridDir+"/", "success", "")
	}

	readmePath := filepath.Join(dir, cfg.ReadmePath)
	if _, err := os.Stat(readmePath); err == nil && !opts.Force {
		r.StatusLine(cfg.ReadmePath, "warn", "exists, left unchanged")
	} else {
		title := filepath.Base(absDir(dir))
		if err := os.WriteFile(readmePath, []byte(report.Template(title)), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", readmePath, err)
		}
		r.StatusLine(cfg.ReadmePath, "success", "")
	}

	if err := copyTemplate("project", dir, opts.Force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}
	files, _ := listTemplateFiles("project")
	for _, f := range files {
		r.StatusLine(f, "success", "")
	}

	r.Println("")
	r.Success("Colony project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Run 'colony seed glider' to place a pattern")
	r.Println("  2. Run 'colony step' to advance one generation")
	r.Println("  3. Run 'colony show' to look at the colony")
	return nil
}

func absDir(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}
