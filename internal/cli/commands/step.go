package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/colony/internal/cli/output"
	"github.com/leapstack-labs/colony/internal/engine"
	"github.com/leapstack-labs/colony/pkg/life"
)

// StepOptions holds options for the step command.
type StepOptions struct {
	DryRun bool
}

// NewStepCommand creates the step command.
func NewStepCommand() *cobra.Command {
	opts := &StepOptions{}

	cmd := &cobra.Command{
		Use:   "step",
		Short: "Advance the colony by one generation",
		Long: `Read the live cells from the grid directory, apply the rules of
Conway's Game of Life once and write the next generation back.

Each step appends a row with an ASCII snapshot to the life log, overwrites
the summary file and refreshes the status block of the README.

Output adapts to environment:
  - Terminal: Styled snapshot
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # Advance one generation
  colony step

  # Preview the next generation without writing anything
  colony step --dry-run

  # Machine-readable result for CI
  colony step --output json`,
		Aliases: []string{"tick"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStep(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Compute the next generation without writing anything")

	return cmd
}

func runStep(cmd *cobra.Command, opts *StepOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := cmdCtx.Engine.Step(cmd.Context(), engine.StepOptions{DryRun: opts.DryRun})
	if err != nil {
		return fmt.Errorf("step failed: %w", err)
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(stepOutput(res))
	case output.ModeMarkdown:
		stepMarkdown(r, res)
	default:
		stepText(r, res)
	}
	return nil
}

func stepOutput(res *engine.StepResult) output.StepOutput {
	out := output.StepOutput{
		Generation:    res.Generation,
		Population:    res.Summary.Population,
		Born:          res.Summary.Born,
		Died:          res.Summary.Died,
		Summary:       res.Summary.Sentence(),
		Snapshot:      res.Snapshot,
		ReadmeUpdated: res.ReadmeUpdated,
		DryRun:        res.DryRun,
		Cells:         toPairs(res.Next.Sorted()),
		BornCells:     toPairs(res.Diff.Born.Sorted()),
		DiedCells:     toPairs(res.Diff.Died.Sorted()),
	}
	if b, ok := res.Next.Bounds(); ok {
		out.Bounds = boundsOut(b)
	}
	return out
}

func boundsOut(b life.Bounds) *output.BoundsOut {
	return &output.BoundsOut{MinX: b.MinX, MaxX: b.MaxX, MinY: b.MinY, MaxY: b.MaxY}
}

func stepTitle(res *engine.StepResult) string {
	title := fmt.Sprintf("Generation %d", res.Generation)
	if res.DryRun {
		title += " (dry run)"
	}
	return title
}

func stepText(r *output.Renderer, res *engine.StepResult) {
	r.Header(1, stepTitle(res))
	r.Println(renderSnapshot(r, res.Snapshot))
	r.Println(res.Summary.Sentence())
	if !res.DryRun && res.ReadmeUpdated {
		r.Muted("README status updated")
	}
}

func stepMarkdown(r *output.Renderer, res *engine.StepResult) {
	r.Println(output.FormatHeader(1, stepTitle(res)))
	r.Println("")
	r.Println(output.FormatKeyValue("Population", fmt.Sprintf("%d", res.Summary.Population)))
	r.Println(output.FormatKeyValue("Born", fmt.Sprintf("%d", res.Summary.Born)))
	r.Println(output.FormatKeyValue("Died", fmt.Sprintf("%d", res.Summary.Died)))
	r.Println("")
	r.Println(output.FormatCodeBlock("", strings.Join(res.Snapshot, "\n")))
	r.Println("")
	r.Println(res.Summary.Sentence())
}

// renderSnapshot frames snapshot rows for the terminal.
func renderSnapshot(r *output.Renderer, rows []string) string {
	styles := r.Styles()
	body := strings.Join(rows, "\n")
	if !r.IsTTY() {
		return body
	}
	return styles.Frame.Render(styles.Alive.Render(body))
}
