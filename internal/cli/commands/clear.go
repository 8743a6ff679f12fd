package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/colony/internal/cli/output"
)

// NewClearCommand creates the clear command.
func NewClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every live cell",
		Long: `Delete every marker file from the grid directory. Other files in the
directory are left alone. The life log and history are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := cmdCtx.Engine.Clear()
			if err != nil {
				return fmt.Errorf("failed to clear colony: %w", err)
			}

			r := cmdCtx.Renderer
			switch r.EffectiveMode() {
			case output.ModeJSON:
				return r.JSON(map[string]int{"removed": n})
			case output.ModeMarkdown:
				r.Println(output.FormatKeyValue("Removed", fmt.Sprintf("%d", n)))
			default:
				r.Success(fmt.Sprintf("Removed %d cells", n))
			}
			return nil
		},
	}
}
