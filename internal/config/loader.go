package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "colony.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "colony.yml"

// LoadFromDir loads the project config found in dir on top of the defaults.
// Returns nil, nil if no config file is found (not an error condition).
// Paths are returned as written; they are not resolved against dir.
func LoadFromDir(dir string) (*Config, error) {
	configPath := FindConfigFile(dir)
	if configPath == "" {
		return nil, nil
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(DefaultMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ProjectRoot = dir
	return &cfg, nil
}

// FindConfigFile returns the config file in dir, or "" if there is none.
func FindConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// FindProjectRoot walks up from startDir to the first directory holding a
// config file. Returns "" if none is found within maxLevels directories.
func FindProjectRoot(startDir string, maxLevels int) string {
	dir := startDir
	for i := 0; i < maxLevels; i++ {
		if FindConfigFile(dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
	return ""
}

// ResolvePath joins a relative path onto baseDir. Empty and absolute paths
// are returned unchanged.
func ResolvePath(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// Resolve makes every path of c absolute against c.ProjectRoot.
func (c *Config) Resolve() {
	c.GridDir = ResolvePath(c.GridDir, c.ProjectRoot)
	c.LogPath = ResolvePath(c.LogPath, c.ProjectRoot)
	c.SummaryPath = ResolvePath(c.SummaryPath, c.ProjectRoot)
	c.ReadmePath = ResolvePath(c.ReadmePath, c.ProjectRoot)
	if c.StatePath != ":memory:" {
		c.StatePath = ResolvePath(c.StatePath, c.ProjectRoot)
	}
}
