// Package config provides the configuration types shared by the engine and
// the CLI. It has no CLI concerns; flag and environment layering lives in
// internal/cli/config.
package config

import (
	"fmt"
	"unicode/utf8"

	"github.com/leapstack-labs/colony/internal/chronicle"
)

// SnapshotConfig controls the ASCII drawing written to the life log.
type SnapshotConfig struct {
	Margin     int    `koanf:"margin" yaml:"margin"`
	AliveGlyph string `koanf:"alive_glyph" yaml:"alive_glyph"`
	DeadGlyph  string `koanf:"dead_glyph" yaml:"dead_glyph"`
}

// ReadmeConfig names the markers that delimit the README status block.
type ReadmeConfig struct {
	StartMarker string `koanf:"start_marker" yaml:"start_marker"`
	EndMarker   string `koanf:"end_marker" yaml:"end_marker"`
}

// Config holds every setting of a colony project.
type Config struct {
	ProjectRoot string `koanf:"-" yaml:"-"`

	GridDir     string         `koanf:"grid_dir" yaml:"grid_dir"`
	LogPath     string         `koanf:"log_path" yaml:"log_path"`
	SummaryPath string         `koanf:"summary_path" yaml:"summary_path"`
	ReadmePath  string         `koanf:"readme_path" yaml:"readme_path"`
	StatePath   string         `koanf:"state_path" yaml:"state_path"`
	History     bool           `koanf:"history" yaml:"history"`
	Verbose     bool           `koanf:"verbose" yaml:"verbose,omitempty"`
	Output      string         `koanf:"output" yaml:"output,omitempty"`
	Snapshot    SnapshotConfig `koanf:"snapshot" yaml:"snapshot"`
	Readme      ReadmeConfig   `koanf:"readme" yaml:"readme"`
}

// Validate checks that the configuration can drive a step.
func (c *Config) Validate() error {
	required := []struct {
		key, value string
	}{
		{"grid_dir", c.GridDir},
		{"log_path", c.LogPath},
		{"summary_path", c.SummaryPath},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is required", r.key)
		}
	}
	if c.History && c.StatePath == "" {
		return fmt.Errorf("state_path is required when history is enabled")
	}

	if c.Snapshot.Margin < 0 {
		return fmt.Errorf("snapshot.margin must not be negative, got %d", c.Snapshot.Margin)
	}
	if err := validateGlyph("snapshot.alive_glyph", c.Snapshot.AliveGlyph); err != nil {
		return err
	}
	if err := validateGlyph("snapshot.dead_glyph", c.Snapshot.DeadGlyph); err != nil {
		return err
	}
	if c.Snapshot.AliveGlyph == c.Snapshot.DeadGlyph {
		return fmt.Errorf("snapshot glyphs must differ")
	}

	switch c.Output {
	case "", "auto", "text", "markdown", "json":
	default:
		return fmt.Errorf("output must be one of auto, text, markdown, json, got %q", c.Output)
	}

	if c.ReadmePath != "" && (c.Readme.StartMarker == "" || c.Readme.EndMarker == "") {
		return fmt.Errorf("readme.start_marker and readme.end_marker are required when readme_path is set")
	}
	return nil
}

// validateGlyph requires a single rune other than the table delimiter, which
// would be counted as a log row.
func validateGlyph(key, glyph string) error {
	if utf8.RuneCountInString(glyph) != 1 {
		return fmt.Errorf("%s must be exactly one character, got %q", key, glyph)
	}
	if glyph == "|" {
		return fmt.Errorf("%s must not be %q", key, glyph)
	}
	return nil
}

// ChronicleOptions converts the snapshot settings for the life log.
func (c *Config) ChronicleOptions() chronicle.Options {
	alive, _ := utf8.DecodeRuneInString(c.Snapshot.AliveGlyph)
	dead, _ := utf8.DecodeRuneInString(c.Snapshot.DeadGlyph)
	return chronicle.Options{
		Margin:     c.Snapshot.Margin,
		AliveGlyph: alive,
		DeadGlyph:  dead,
	}
}
