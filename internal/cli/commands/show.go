package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/colony/internal/cli/output"
	"github.com/leapstack-labs/colony/internal/pattern"
	"github.com/leapstack-labs/colony/pkg/life"
)

// ShowOptions holds options for the show command.
type ShowOptions struct {
	Save string
}

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	opts := &ShowOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display the current colony",
		Long: `Draw the live cells currently in the grid directory without advancing
the colony. The drawing uses the configured snapshot margin and glyphs.`,
		Example: `  # Draw the colony
  colony show

  # List live cells as JSON
  colony show --output json

  # Save the colony as a pattern to seed later
  colony show --save patterns/today.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Save, "save", "", "Also write the colony to a pattern file")

	return cmd
}

func runShow(cmd *cobra.Command, opts *ShowOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cur, err := cmdCtx.Engine.Current()
	if err != nil {
		return fmt.Errorf("failed to read grid: %w", err)
	}

	if opts.Save != "" {
		if err := savePattern(opts.Save, cur); err != nil {
			return err
		}
		cmdCtx.Logger.Info("saved colony", slog.String("path", opts.Save), slog.Int("cells", cur.Len()))
	}

	snap := cmdCtx.Cfg.ChronicleOptions()
	rows := life.RenderRows(cur, life.Frame(cur, snap.Margin), snap.AliveGlyph, snap.DeadGlyph)

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		out := output.ShowOutput{
			GridDir:    cmdCtx.Cfg.GridDir,
			Population: cur.Len(),
			Cells:      toPairs(cur.Sorted()),
			Rows:       rows,
		}
		if b, ok := cur.Bounds(); ok {
			out.Bounds = boundsOut(b)
		}
		return r.JSON(out)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Colony"))
		r.Println("")
		r.Println(output.FormatKeyValue("Population", fmt.Sprintf("%d", cur.Len())))
		r.Println(output.FormatKeyValue("Grid", cmdCtx.Cfg.GridDir))
		r.Println("")
		r.Println(output.FormatCodeBlock("", strings.Join(rows, "\n")))
	default:
		r.Header(1, fmt.Sprintf("Colony (%d alive)", cur.Len()))
		r.Println(renderSnapshot(r, rows))
		if cur.Len() == 0 {
			r.Muted("The colony is empty. Seed it with 'colony seed <pattern>'.")
		}
	}
	return nil
}

func savePattern(path string, cells life.LiveSet) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	data, err := pattern.Marshal(pattern.FromLiveSet(name, cells))
	if err != nil {
		return fmt.Errorf("failed to encode pattern: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write pattern %s: %w", path, err)
	}
	return nil
}
