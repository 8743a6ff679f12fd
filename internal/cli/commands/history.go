package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/colony/internal/cli/output"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int
	Prune int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded generations",
		Long: `List the generations recorded in the history database, newest first.

History is recorded by 'colony step' unless it is disabled with
--no-history or 'history: false' in colony.yaml.`,
		Example: `  # Last 20 generations
  colony history --limit 20

  # Everything, as JSON
  colony history --limit 0 --output json

  # Forget all but the newest 100 generations
  colony history --prune 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 10, "Number of generations to show (0 for all)")
	cmd.Flags().IntVar(&opts.Prune, "prune", -1, "Delete all but the newest N generations before listing")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	store := cmdCtx.Engine.History()
	if store == nil {
		return errors.New("history is disabled; enable it with 'history: true' in colony.yaml")
	}

	ctx := cmd.Context()
	if cmd.Flags().Changed("prune") {
		deleted, err := store.PruneGenerations(ctx, opts.Prune)
		if err != nil {
			return err
		}
		cmdCtx.Logger.Info("pruned history", slog.Int("deleted", deleted), slog.Int("kept", opts.Prune))
		if cmdCtx.Renderer.EffectiveMode() != output.ModeJSON {
			cmdCtx.Renderer.Muted(fmt.Sprintf("Pruned %d generations", deleted))
		}
	}

	gens, err := store.ListGenerations(ctx, opts.Limit)
	if err != nil {
		return fmt.Errorf("failed to list generations: %w", err)
	}
	total, err := store.CountGenerations(ctx)
	if err != nil {
		return fmt.Errorf("failed to count generations: %w", err)
	}

	entries := make([]output.HistoryEntry, 0, len(gens))
	for _, g := range gens {
		entries = append(entries, output.HistoryEntry{
			Generation: g.Generation,
			RecordedAt: g.RecordedAt.Format(time.RFC3339),
			Population: g.Population,
			Born:       g.Born,
			Died:       g.Died,
		})
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.HistoryOutput{Generations: entries, Total: total})
	}

	r.Header(1, "History")
	if len(entries) == 0 {
		r.Muted("No generations recorded yet. Run 'colony step'.")
		return nil
	}

	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.Row{e.Generation, e.RecordedAt, e.Population, e.Born, e.Died})
	}
	r.Table(table.Row{"Generation", "Recorded", "Population", "Born", "Died"}, rows)
	r.Printf("Showing %d of %d generations\n", len(entries), total)
	return nil
}
