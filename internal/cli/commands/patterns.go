package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/colony/internal/cli/output"
	"github.com/leapstack-labs/colony/internal/pattern"
)

// NewPatternsCommand creates the patterns command.
func NewPatternsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List built-in seed patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPatterns(cmd)
		},
	}
}

func patternInfos() []output.PatternInfo {
	names := pattern.Names()
	infos := make([]output.PatternInfo, 0, len(names))
	for _, name := range names {
		p, _ := pattern.Builtin(name)
		info := output.PatternInfo{
			Name:        p.Name,
			Description: p.Description,
			Cells:       len(p.Cells),
		}
		if b, ok := p.LiveSet().Bounds(); ok {
			info.Width = b.Width()
			info.Height = b.Height()
		}
		infos = append(infos, info)
	}
	return infos
}

func runPatterns(cmd *cobra.Command) error {
	r := NewCommandContextWithoutEngine(cmd).Renderer
	infos := patternInfos()

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.PatternsOutput{Patterns: infos})
	}

	title := cases.Title(language.English)
	rows := make([]table.Row, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, table.Row{
			info.Name,
			title.String(info.Description),
			info.Cells,
			fmt.Sprintf("%dx%d", info.Width, info.Height),
		})
	}

	r.Header(1, "Patterns")
	r.Table(table.Row{"Name", "Description", "Cells", "Size"}, rows)
	return nil
}
