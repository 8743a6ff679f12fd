package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/colony/internal/chronicle"
	"github.com/leapstack-labs/colony/internal/cli"
	intconfig "github.com/leapstack-labs/colony/internal/config"
	"github.com/leapstack-labs/colony/internal/grid"
	"github.com/leapstack-labs/colony/internal/report"
	"github.com/leapstack-labs/colony/pkg/life"
)

// exampleDate is the date shown in file format samples, so pages do not
// change between runs.
var exampleDate = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

// flagSetting returns the colony.yaml key a flag overrides, or "" for flags
// that only affect the command they belong to.
func flagSetting(name string) string {
	switch name {
	case "no-history":
		return "history"
	case "margin":
		return "snapshot.margin"
	case "state":
		return "state_path"
	}
	key := strings.ReplaceAll(name, "-", "_")
	if _, ok := intconfig.DefaultMap()[key]; ok {
		return key
	}
	return ""
}

// documentedCommands returns the commands that get a page.
func documentedCommands(root *cobra.Command) []*cobra.Command {
	var cmds []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

// generateCLIDocs writes index.md and one page per command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	pages := map[string][]byte{"index.md": cliIndex(root)}
	for _, cmd := range documentedCommands(root) {
		pages[cmd.Name()+".md"] = commandPage(cmd)
	}

	for name, data := range pages {
		if err := os.WriteFile(filepath.Join(outDir, name), data, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

func cliIndex(root *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for colony")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph("colony keeps a Game of Life colony in a directory of marker files and advances it one generation per run. Running `colony` without a command is the same as `colony step`.")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/colony/cmd/colony@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range documentedCommands(root) {
		aliases := make([]string, 0, len(cmd.Aliases))
		for _, a := range cmd.Aliases {
			aliases = append(aliases, InlineCode(a))
		}
		rows = append(rows, []string{
			fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name()),
			strings.Join(aliases, ", "),
			cleanDescription(cmd.Short),
		})
	}
	w.Table([]string{"Command", "Aliases", "Description"}, rows)

	w.Header(2, "Global Options")
	w.Paragraph("Flags that name a setting override `colony.yaml` and its `COLONY_` environment variable for one run.")
	writeFlagsTable(w, root.PersistentFlags())

	w.Header(2, "Project Files")
	writeProjectFiles(w)

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Success, including README or history problems that were only logged"},
		{InlineCode("1"), "The command failed; the error is printed to stderr"},
	})

	return w.Bytes()
}

// writeProjectFiles documents the files a step reads and writes, using the
// same code that produces them.
func writeProjectFiles(w *MarkdownWriter) {
	defaults := intconfig.DefaultMap()
	setting := func(key string) string {
		return fmt.Sprintf("%s (%s)", InlineCode(key), InlineCode(fmt.Sprint(defaults[key])))
	}

	marker := grid.MarkerName(life.Coord{X: 3, Y: -2})
	row, _, _ := strings.Cut(chronicle.Entry{Generation: 1, Date: exampleDate, Alive: 3}.Format(), "\n")
	sentence := report.Summary{Generation: 1, Born: 2, Died: 2, Population: 3}.Sentence()

	w.Table([]string{"Setting", "Contents"}, [][]string{
		{setting("grid_dir"), fmt.Sprintf("One file per live cell. %s marks the cell at x=3, y=-2.", InlineCode(marker))},
		{setting("log_path"), "Markdown table with one row per generation. Each row ends with the snapshot in a code fence."},
		{setting("summary_path"), fmt.Sprintf("The latest summary sentence: %q", sentence)},
		{setting("readme_path"), fmt.Sprintf("The text between %s and %s is replaced with the summary and a timestamp.", InlineCode(report.DefaultStartMarker), InlineCode(report.DefaultEndMarker))},
		{setting("state_path"), "SQLite database with one row per generation, read by `colony history`."},
	})

	w.Paragraph("A life log row starts like this:")
	w.CodeBlock("markdown", strings.TrimSpace(row))
}

func commandPage(cmd *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	w.Paragraph(desc)

	w.Header(2, "Usage")
	use := cmd.UseLine()
	if cmd.HasAvailableSubCommands() {
		use = cmd.CommandPath() + " <subcommand>"
	}
	w.CodeBlock("bash", use)

	if len(cmd.Aliases) > 0 {
		w.Paragraph("Also available as " + InlineCode("colony "+strings.Join(cmd.Aliases, "`, `colony ")) + ".")
	}

	if cmd.HasAvailableSubCommands() {
		w.Header(2, "Subcommands")
		var rows [][]string
		for _, sub := range cmd.Commands() {
			if !sub.Hidden {
				rows = append(rows, []string{InlineCode(sub.Name()), cleanDescription(sub.Short)})
			}
		}
		w.Table([]string{"Subcommand", "Description"}, rows)
	}

	if cmd.HasAvailableLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}
	if cmd.HasAvailableInheritedFlags() {
		w.Paragraph("See the [global options](/cli/) for flags shared by every command.")
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", cleanExample(cmd.Example))
	}

	return w.Bytes()
}

// writeFlagsTable lists flags with the setting each one overrides.
func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			name = InlineCode("-"+f.Shorthand) + ", " + name
		}
		def := ""
		if f.DefValue != "" && f.Value.Type() != "bool" {
			def = InlineCode(f.DefValue)
		}
		set := ""
		if key := flagSetting(f.Name); key != "" {
			set = InlineCode(key)
		}
		rows = append(rows, []string{name, def, set, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Flag", "Default", "Setting", "Description"}, rows)
}

// cleanExample strips the indentation cobra examples share.
func cleanExample(example string) string {
	lines := strings.Split(example, "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent < 0 {
		return ""
	}
	for i, line := range lines {
		lines[i] = line[min(indent, len(line)):]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
