package state

import (
	"context"
	"fmt"
	"log/slog"
)

// PruneGenerations removes every generation except the newest keep and
// returns how many rows were deleted. A keep of zero empties the history.
func (s *SQLiteStore) PruneGenerations(ctx context.Context, keep int) (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}
	if keep < 0 {
		return 0, fmt.Errorf("keep must not be negative, got %d", keep)
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM generations
		WHERE id NOT IN (
			SELECT id FROM generations
			ORDER BY generation DESC, recorded_at DESC
			LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune generations: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to prune generations: %w", err)
	}
	s.logger.Debug("pruned generations", slog.Int("kept", keep), slog.Int64("deleted", n))
	return int(n), nil
}
