package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/colony/internal/chronicle"
	"github.com/leapstack-labs/colony/internal/report"
	"github.com/leapstack-labs/colony/internal/state"
	"github.com/leapstack-labs/colony/pkg/life"
)

// StepOptions tune a single step.
type StepOptions struct {
	// DryRun computes the next generation without updating the grid or any
	// of the records.
	DryRun bool
}

// StepResult describes a completed step.
type StepResult struct {
	Generation    int
	Previous      life.LiveSet
	Next          life.LiveSet
	Diff          life.Diff
	Summary       report.Summary
	Snapshot      []string
	ReadmeUpdated bool
	DryRun        bool
}

// Step advances the colony by one generation.
//
// The grid is updated first, then the life log, the summary and the README.
// Failures writing the grid, the log or the summary abort the step and
// leave behind whatever was already written. README and history failures
// are logged and do not fail the step.
func (e *Engine) Step(ctx context.Context, opts StepOptions) (*StepResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prev, err := e.grid.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read grid: %w", err)
	}
	next := life.Step(prev)
	diff := life.Compare(prev, next)

	gen, err := e.log.NextGeneration()
	if err != nil {
		return nil, fmt.Errorf("failed to count generations: %w", err)
	}

	res := &StepResult{
		Generation: gen,
		Previous:   prev,
		Next:       next,
		Diff:       diff,
		Summary: report.Summary{
			Generation: gen,
			Born:       diff.Born.Len(),
			Died:       diff.Died.Len(),
			Population: next.Len(),
		},
		Snapshot: e.snapshot.Snapshot(prev, next),
		DryRun:   opts.DryRun,
	}

	e.logger.Debug("computed generation",
		slog.Int("generation", gen),
		slog.Int("population", res.Summary.Population),
		slog.Int("born", res.Summary.Born),
		slog.Int("died", res.Summary.Died),
	)

	if opts.DryRun {
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.grid.ApplyDiff(prev, next); err != nil {
		return nil, fmt.Errorf("failed to update grid: %w", err)
	}

	now := e.now()
	if err := e.log.Append(chronicle.Entry{
		Generation: gen,
		Date:       now,
		Alive:      next.Len(),
		Snapshot:   res.Snapshot,
	}); err != nil {
		return nil, err
	}

	if err := report.WriteSummary(e.summaryPath, res.Summary); err != nil {
		return nil, err
	}

	res.ReadmeUpdated = e.updateReadme(res.Summary.Sentence())
	e.recordHistory(ctx, res)

	e.logger.Info("generation complete",
		slog.Int("generation", gen),
		slog.Int("population", res.Summary.Population),
	)
	return res, nil
}

func (e *Engine) updateReadme(sentence string) bool {
	if e.readme == nil {
		return false
	}
	updated, err := e.readme.Update(sentence, e.now())
	if err != nil {
		e.logger.Warn("README update failed", slog.String("path", e.readme.Path), slog.Any("error", err))
		return false
	}
	if !updated {
		e.logger.Debug("README not updated", slog.String("path", e.readme.Path))
	}
	return updated
}

func (e *Engine) recordHistory(ctx context.Context, res *StepResult) {
	if e.store == nil {
		return
	}
	err := e.store.RecordGeneration(ctx, &state.Generation{
		Generation: res.Generation,
		RecordedAt: e.now().UTC(),
		Population: res.Summary.Population,
		Born:       res.Summary.Born,
		Died:       res.Summary.Died,
		GridDir:    e.grid.Dir(),
	})
	if err != nil {
		e.logger.Warn("failed to record generation history", slog.Any("error", err))
	}
}
