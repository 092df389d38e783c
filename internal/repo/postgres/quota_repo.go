package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrQuotaLimitReached is returned when the conditional upsert matches no
// row, meaning used >= limit for the day.
var ErrQuotaLimitReached = errors.New("daily quota limit reached")

type QuotaRepo struct {
	pool *pgxpool.Pool
}

func NewQuotaRepo(pool *pgxpool.Pool) *QuotaRepo {
	return &QuotaRepo{pool: pool}
}

// ConsumeLike atomically increments likes_used for the day unless the limit
// is already spent. Rows are keyed by (user_id, day_key): the first consume
// of a new day inserts a fresh row, so there is no reset step to race with.
func (r *QuotaRepo) ConsumeLike(ctx context.Context, tx pgx.Tx, userID int64, dayKey string, limit int) (int, error) {
	return r.consume(ctx, tx, userID, dayKey, limit, "likes_used", 1, 0)
}

// ConsumeUndo is ConsumeLike for the undos_used column.
func (r *QuotaRepo) ConsumeUndo(ctx context.Context, tx pgx.Tx, userID int64, dayKey string, limit int) (int, error) {
	return r.consume(ctx, tx, userID, dayKey, limit, "undos_used", 0, 1)
}

func (r *QuotaRepo) consume(ctx context.Context, tx pgx.Tx, userID int64, dayKey string, limit int, column string, likesDelta, undosDelta int) (int, error) {
	if userID <= 0 || strings.TrimSpace(dayKey) == "" || limit <= 0 {
		return 0, fmt.Errorf("invalid quota consume payload")
	}
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}

	// column is one of the two constants above, never caller input.
	var used int
	err := tx.QueryRow(ctx, `
INSERT INTO daily_quotas (
	user_id,
	day_key,
	likes_used,
	undos_used,
	updated_at
) VALUES ($1, $2::date, $3, $4, NOW())
ON CONFLICT (user_id, day_key) DO UPDATE SET
	likes_used = daily_quotas.likes_used + EXCLUDED.likes_used,
	undos_used = daily_quotas.undos_used + EXCLUDED.undos_used,
	updated_at = NOW()
WHERE daily_quotas.`+column+` < $5
RETURNING `+column+`
`, userID, dayKey, likesDelta, undosDelta, limit).Scan(&used)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrQuotaLimitReached
		}
		return 0, fmt.Errorf("consume daily quota: %w", err)
	}

	return used, nil
}

type QuotaUsage struct {
	LikesUsed int
	UndosUsed int
}

func (r *QuotaRepo) GetUsage(ctx context.Context, userID int64, dayKey string) (QuotaUsage, error) {
	if userID <= 0 || strings.TrimSpace(dayKey) == "" {
		return QuotaUsage{}, fmt.Errorf("invalid quota lookup payload")
	}

	var usage QuotaUsage
	err := r.pool.QueryRow(ctx, `
SELECT likes_used, undos_used
FROM daily_quotas
WHERE user_id = $1 AND day_key = $2::date
LIMIT 1
`, userID, dayKey).Scan(&usage.LikesUsed, &usage.UndosUsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return QuotaUsage{}, nil
		}
		return QuotaUsage{}, fmt.Errorf("get daily quota usage: %w", err)
	}

	return usage, nil
}

// DeleteOlderThan purges spent quota rows. Past day keys can never be
// consulted again, so this is safe at any cutoff before today.
func (r *QuotaRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx, `
DELETE FROM daily_quotas
WHERE day_key < $1::date
`, cutoff.UTC().Format("2006-01-02"))
	if err != nil {
		return 0, fmt.Errorf("purge old quotas: %w", err)
	}

	return result.RowsAffected(), nil
}
