package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/colony/internal/cli/config"
	"github.com/leapstack-labs/colony/internal/cli/output"
	"github.com/leapstack-labs/colony/internal/engine"
	"github.com/leapstack-labs/colony/pkg/life"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx := NewCommandContextWithoutEngine(cmd)

	eng, err := createEngine(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return nil, nil, err
	}
	cmdCtx.Engine = eng

	cleanup := func() {
		if err := eng.Close(); err != nil {
			cmdCtx.Logger.Warn("failed to close engine", slog.Any("error", err))
		}
	}
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that don't touch the colony.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
	}
}

// EngineConfig converts the loaded configuration for the engine.
func EngineConfig(cfg *config.Config, logger *slog.Logger) engine.Config {
	statePath := cfg.StatePath
	if !cfg.History {
		statePath = ""
	}
	return engine.Config{
		GridDir:     cfg.GridDir,
		LogPath:     cfg.LogPath,
		SummaryPath: cfg.SummaryPath,
		ReadmePath:  cfg.ReadmePath,
		StartMarker: cfg.Readme.StartMarker,
		EndMarker:   cfg.Readme.EndMarker,
		StatePath:   statePath,
		Snapshot:    cfg.ChronicleOptions(),
		Logger:      logger,
	}
}

func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	return engine.New(EngineConfig(cfg, logger))
}

// toPairs flattens coordinates for JSON output.
func toPairs(cells []life.Coord) [][2]int {
	pairs := make([][2]int, 0, len(cells))
	for _, c := range cells {
		pairs = append(pairs, [2]int{c.X, c.Y})
	}
	return pairs
}
