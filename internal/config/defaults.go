package config

import (
	"github.com/leapstack-labs/colony/internal/report"
	"github.com/leapstack-labs/colony/pkg/life"
)

// Default configuration values.
const (
	DefaultGridDir     = "grid"
	DefaultLogPath     = "life-log.md"
	DefaultSummaryPath = "summary.txt"
	DefaultReadmePath  = "README.md"
	DefaultStatePath   = ".colony/state.db"
	DefaultMargin      = 2
	DefaultOutput      = "auto" // TTY=text, otherwise markdown
)

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{
		History:  true,
		Snapshot: SnapshotConfig{Margin: DefaultMargin},
	}
	ApplyDefaults(c)
	return c
}

// DefaultMap returns the defaults keyed the way they appear in colony.yaml.
func DefaultMap() map[string]any {
	return map[string]any{
		"grid_dir":             DefaultGridDir,
		"log_path":             DefaultLogPath,
		"summary_path":         DefaultSummaryPath,
		"readme_path":          DefaultReadmePath,
		"state_path":           DefaultStatePath,
		"history":              true,
		"verbose":              false,
		"output":               DefaultOutput,
		"snapshot.margin":      DefaultMargin,
		"snapshot.alive_glyph": string(life.AliveGlyph),
		"snapshot.dead_glyph":  string(life.DeadGlyph),
		"readme.start_marker":  report.DefaultStartMarker,
		"readme.end_marker":    report.DefaultEndMarker,
	}
}

// ApplyDefaults fills in empty string fields. History and the snapshot
// margin are left alone because their zero values are valid choices.
func ApplyDefaults(c *Config) {
	if c == nil {
		return
	}
	if c.GridDir == "" {
		c.GridDir = DefaultGridDir
	}
	if c.LogPath == "" {
		c.LogPath = DefaultLogPath
	}
	if c.SummaryPath == "" {
		c.SummaryPath = DefaultSummaryPath
	}
	if c.ReadmePath == "" {
		c.ReadmePath = DefaultReadmePath
	}
	if c.StatePath == "" {
		c.StatePath = DefaultStatePath
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Snapshot.AliveGlyph == "" {
		c.Snapshot.AliveGlyph = string(life.AliveGlyph)
	}
	if c.Snapshot.DeadGlyph == "" {
		c.Snapshot.DeadGlyph = string(life.DeadGlyph)
	}
	if c.Readme.StartMarker == "" {
		c.Readme.StartMarker = report.DefaultStartMarker
	}
	if c.Readme.EndMarker == "" {
		c.Readme.EndMarker = report.DefaultEndMarker
	}
}
