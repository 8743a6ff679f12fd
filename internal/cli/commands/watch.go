package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/colony/internal/cli/output"
	"github.com/leapstack-labs/colony/internal/engine"
	"github.com/leapstack-labs/colony/internal/grid"
	"github.com/leapstack-labs/colony/pkg/life"
)

// watchDebounce is how long the grid must be quiet before redrawing.
const watchDebounce = 200 * time.Millisecond

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\x1b[H\x1b[2J"

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Every time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Redraw the colony whenever the grid changes",
		Long: `Draw the colony and redraw it each time a marker file in the grid
directory is created, changed or removed. Runs until interrupted.

Combine with 'colony step' in another terminal or a scheduled job to watch
the colony evolve, or pass --every to advance it from here. Each automatic
step is recorded like a normal 'colony step'.`,
		Example: `  # Watch the colony
  colony watch

  # Advance one generation per second while watching
  colony watch --every 1s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.Every, "every", 0, "Also advance the colony at this interval (0 to only watch)")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *WatchOptions) error {
	if opts.Every < 0 {
		return fmt.Errorf("--every must not be negative, got %s", opts.Every)
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := cmdCtx.Renderer
	snap := cmdCtx.Cfg.ChronicleOptions()
	draw := func() {
		cur, err := cmdCtx.Engine.Current()
		if err != nil {
			r.Error(fmt.Sprintf("failed to read grid: %v", err))
			return
		}
		rows := life.RenderRows(cur, life.Frame(cur, snap.Margin), snap.AliveGlyph, snap.DeadGlyph)
		if r.IsTTY() {
			r.Printf("%s", clearScreen)
		}
		switch r.EffectiveMode() {
		case output.ModeMarkdown, output.ModeJSON:
			r.Println(output.FormatHeader(2, fmt.Sprintf("%s (%d alive)", time.Now().Format("15:04:05"), cur.Len())))
			r.Println(output.FormatCodeBlock("", strings.Join(rows, "\n")))
		default:
			r.Header(1, fmt.Sprintf("Colony (%d alive)", cur.Len()))
			r.Println(renderSnapshot(r, rows))
			r.Muted("Watching " + cmdCtx.Cfg.GridDir + " (Ctrl+C to stop)")
		}
	}

	// Current() creates the directory, so it exists before we watch it.
	draw()
	if opts.Every == 0 {
		return watchGrid(ctx, cmdCtx.Cfg.GridDir, watchDebounce, cmdCtx.Logger, draw)
	}

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return watchGrid(egctx, cmdCtx.Cfg.GridDir, watchDebounce, cmdCtx.Logger, draw)
	})
	eg.Go(func() error {
		return autoStep(egctx, cmdCtx.Engine, opts.Every, cmdCtx.Logger)
	})
	return eg.Wait()
}

// autoStep advances the colony every interval until ctx is done. A failed
// step stops the loop.
func autoStep(ctx context.Context, eng *engine.Engine, every time.Duration, logger *slog.Logger) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			res, err := eng.Step(ctx, engine.StepOptions{})
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("step failed: %w", err)
			}
			logger.Debug("advanced colony",
				slog.Int("generation", res.Generation),
				slog.Int("population", res.Summary.Population),
			)
		}
	}
}

// watchGrid calls onChange after marker files in dir change, once the
// directory has been quiet for debounce. It returns when ctx is done.
func watchGrid(ctx context.Context, dir string, debounce time.Duration, logger *slog.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch grid dir: %w", err)
	}
	logger.Debug("watching grid", slog.String("dir", dir))

	var debounceTimer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if _, ok := grid.ParseMarkerName(filepath.Base(event.Name)); !ok {
				continue
			}

			// Debounce redraws
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(debounce)
			fire = debounceTimer.C
		case <-fire:
			fire = nil
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", slog.Any("error", err))
		}
	}
}
