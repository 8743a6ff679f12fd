package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	clicfg "github.com/leapstack-labs/colony/internal/cli/config"
	intconfig "github.com/leapstack-labs/colony/internal/config"
)

// ConfigField describes one key of colony.yaml.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
}

var configDescriptions = map[string]string{
	"grid_dir":             "Directory holding one marker file per live cell",
	"log_path":             "Markdown life log that gains one row per generation",
	"summary_path":         "File overwritten with the summary sentence after each step",
	"readme_path":          "README whose status block is refreshed after each step",
	"state_path":           "SQLite history database (`:memory:` keeps it in memory)",
	"history":              "Record every generation in the history database",
	"verbose":              "Log debug output to stderr",
	"output":               "Output format: auto, text, markdown or json",
	"snapshot.margin":      "Empty cells drawn around the colony in snapshots (life log snapshots use at least 1)",
	"snapshot.alive_glyph": "Character drawn for a live cell",
	"snapshot.dead_glyph":  "Character drawn for a dead cell",
	"readme.start_marker":  "Line that opens the README status block",
	"readme.end_marker":    "Line that closes the README status block",
}

// getConfigSchema lists every configuration key with its default, sorted by
// name.
func getConfigSchema() []ConfigField {
	defaults := intconfig.DefaultMap()
	names := make([]string, 0, len(defaults))
	for name := range defaults {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]ConfigField, 0, len(names))
	for _, name := range names {
		v := defaults[name]
		fields = append(fields, ConfigField{
			Name:        name,
			Type:        fmt.Sprintf("%T", v),
			Default:     fmt.Sprint(v),
			Description: configDescriptions[name],
		})
	}
	return fields
}

// envVar returns the environment variable that sets a configuration key.
func envVar(key string) string {
	return clicfg.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// generateConfigDocs writes configuration.md.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "colony.yaml reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("colony reads `colony.yaml` from the project root, the nearest directory at or above the working directory that contains one. Relative paths are resolved against that directory.")

	w.Header(2, "Settings")
	headers := []string{"Key", "Type", "Default", "Environment", "Description"}
	var rows [][]string
	for _, f := range getConfigSchema() {
		def := f.Default
		if strings.TrimSpace(def) == "" {
			def = fmt.Sprintf("%q", def)
		}
		rows = append(rows, []string{
			InlineCode(f.Name),
			f.Type,
			InlineCode(def),
			InlineCode(envVar(f.Name)),
			cleanDescription(f.Description),
		})
	}
	w.Table(headers, rows)

	example, err := yaml.Marshal(intconfig.Default())
	if err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}
	w.Header(2, "Default Configuration")
	w.Paragraph("`colony init` writes this file:")
	w.CodeBlock("yaml", string(example))

	filename := filepath.Join(outDir, "configuration.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}
