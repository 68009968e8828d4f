package store

import (
	"context"
	"fmt"
)

// WriteRun records run and its calls in a single transaction.
//
// run.Seq is ignored: the store assigns the next value of its own logical
// clock and returns it. Uses ON CONFLICT(id) DO NOTHING for idempotency - if
// the run was recorded before, nothing is written and the existing seq is
// returned with inserted=false.
//
// Every call must carry RunID == run.ID.
func (s *Store) WriteRun(ctx context.Context, run Run, calls []Call) (seq int64, inserted bool, err error) {
	if run.ID == "" {
		return 0, false, fmt.Errorf("write run: empty id")
	}
	for _, c := range calls {
		if c.RunID != run.ID {
			return 0, false, fmt.Errorf("write run: call %s belongs to run %q, not %q", c.ID, c.RunID, run.ID)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, batch, scenario, op, callback, sequence, has_seed, seed, result, error_kind, error_message, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs))
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Batch,
		run.Scenario,
		run.Op,
		run.Callback,
		run.Sequence,
		run.HasSeed,
		run.Seed,
		run.Result,
		run.ErrorKind,
		run.ErrorMessage,
	)
	if err != nil {
		return 0, false, fmt.Errorf("write run: insert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("write run: rows affected: %w", err)
	}
	inserted = rowsAffected > 0

	if err := tx.QueryRowContext(ctx, `SELECT seq FROM runs WHERE id = ?`, run.ID).Scan(&seq); err != nil {
		return 0, false, fmt.Errorf("write run: select seq: %w", err)
	}

	if inserted {
		for _, c := range calls {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO calls (id, run_id, seq, idx, acc, cur, out)
				VALUES (?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO NOTHING
			`, c.ID, c.RunID, c.Seq, c.Index, c.Acc, c.Cur, c.Out)
			if err != nil {
				return 0, false, fmt.Errorf("write run: insert call %d: %w", c.Index, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("write run: commit: %w", err)
	}
	return seq, inserted, nil
}

// DeleteRun removes a run and, through the foreign key cascade, its calls.
// Returns false if no run had that id.
func (s *Store) DeleteRun(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete run: rows affected: %w", err)
	}
	return n > 0, nil
}
