package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Anayo007/linkup/internal/domain/model"
)

var ErrSkipNotFound = errors.New("skip not found")

type SkipRepo struct {
	pool *pgxpool.Pool
}

func NewSkipRepo(pool *pgxpool.Pool) *SkipRepo {
	return &SkipRepo{pool: pool}
}

// Upsert records the skip. Skipping the same profile twice refreshes the
// timestamp, which keeps undo pointed at the most recent decision.
func (r *SkipRepo) Upsert(ctx context.Context, skipperID, skippedID int64, now time.Time) error {
	if skipperID <= 0 || skippedID <= 0 {
		return fmt.Errorf("invalid skip payload")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO skips (
	skipper_id,
	skipped_id,
	created_at
) VALUES ($1, $2, $3)
ON CONFLICT (skipper_id, skipped_id) DO UPDATE SET
	created_at = EXCLUDED.created_at
`, skipperID, skippedID, now.UTC()); err != nil {
		return fmt.Errorf("upsert skip: %w", err)
	}

	return nil
}

// Newest returns the skipper's most recent skip. Row-locked so two
// concurrent undos cannot both peel the same entry.
func (r *SkipRepo) Newest(ctx context.Context, tx pgx.Tx, skipperID int64) (model.Skip, error) {
	if skipperID <= 0 {
		return model.Skip{}, fmt.Errorf("invalid skipper id")
	}
	if tx == nil {
		return model.Skip{}, fmt.Errorf("transaction is required")
	}

	var s model.Skip
	err := tx.QueryRow(ctx, `
SELECT id, skipper_id, skipped_id, created_at
FROM skips
WHERE skipper_id = $1
ORDER BY created_at DESC, id DESC
LIMIT 1
FOR UPDATE
`, skipperID).Scan(&s.ID, &s.SkipperID, &s.SkippedID, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Skip{}, ErrSkipNotFound
		}
		return model.Skip{}, fmt.Errorf("get newest skip: %w", err)
	}

	return s, nil
}

func (r *SkipRepo) DeleteByID(ctx context.Context, tx pgx.Tx, skipID int64) error {
	if skipID <= 0 {
		return fmt.Errorf("invalid skip id")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	result, err := tx.Exec(ctx, `
DELETE FROM skips
WHERE id = $1
`, skipID)
	if err != nil {
		return fmt.Errorf("delete skip: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrSkipNotFound
	}

	return nil
}

// DeleteOlderThan purges skip rows past the retention window so old
// decisions rotate back into discovery.
func (r *SkipRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx, `
DELETE FROM skips
WHERE created_at < $1
`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge old skips: %w", err)
	}

	return result.RowsAffected(), nil
}
