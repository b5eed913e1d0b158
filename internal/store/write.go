package store

import (
	"context"
	"fmt"
)

// RecordRun inserts a run and its outcomes in one transaction.
// Recording the same run ID twice is an error.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, passed, total, took_ns)
		VALUES (?, ?, ?, ?, ?)
	`,
		run.ID,
		run.StartedAt.UTC().Format(timeLayout),
		run.Passed,
		run.Total,
		int64(run.Took),
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO outcomes
		(run_id, ordinal, name, passed, asserts, elapsed_ns, failed_subtests, fault)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	defer stmt.Close()

	for _, o := range run.Outcomes {
		_, err := stmt.ExecContext(ctx,
			run.ID,
			o.Ordinal,
			o.Name,
			boolToInt(o.Passed),
			o.Asserts,
			int64(o.Elapsed),
			o.FailedSubtests,
			o.Fault,
		)
		if err != nil {
			return fmt.Errorf("record outcome %d of run %s: %w", o.Ordinal, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
