// Package config loads the colony configuration for the CLI.
//
// The configuration types live in internal/config and are re-exported here
// via type aliases so commands only need this package. This package adds the
// layering of defaults, the config file, COLONY_* environment variables and
// command-line flags.
package config

import (
	intconfig "github.com/leapstack-labs/colony/internal/config"
)

// Config is an alias for the shared project configuration.
type Config = intconfig.Config

// SnapshotConfig is an alias for the shared snapshot configuration.
type SnapshotConfig = intconfig.SnapshotConfig

// ReadmeConfig is an alias for the shared README configuration.
type ReadmeConfig = intconfig.ReadmeConfig

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultGridDir   = intconfig.DefaultGridDir
	DefaultLogPath   = intconfig.DefaultLogPath
	DefaultStateFile = intconfig.DefaultStatePath
	DefaultOutput    = intconfig.DefaultOutput
)

// EnvPrefix is the prefix of environment variables read into the config.
const EnvPrefix = "COLONY_"
