package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Anayo007/linkup/internal/domain/enums"
	"github.com/Anayo007/linkup/internal/domain/model"
)

var ErrLikeExists = errors.New("like already exists")

type LikeRepo struct {
	pool *pgxpool.Pool
}

func NewLikeRepo(pool *pgxpool.Pool) *LikeRepo {
	return &LikeRepo{pool: pool}
}

// Insert creates the like edge. A duplicate is a hard conflict, not an
// upsert: zero rows on ON CONFLICT DO NOTHING means the edge was already
// there.
func (r *LikeRepo) Insert(ctx context.Context, tx pgx.Tx, like model.Like, now time.Time) (int64, error) {
	if like.FromUserID <= 0 || like.ToUserID <= 0 {
		return 0, fmt.Errorf("invalid like payload")
	}
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}

	var id int64
	err := tx.QueryRow(ctx, `
INSERT INTO likes (
	from_user_id,
	to_user_id,
	target_kind,
	photo_id,
	prompt_answer_id,
	comment,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (from_user_id, to_user_id) DO NOTHING
RETURNING id
`, like.FromUserID, like.ToUserID, string(like.TargetKind), like.PhotoID, like.PromptAnswerID, like.Comment, now.UTC()).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrLikeExists
		}
		return 0, fmt.Errorf("insert like: %w", err)
	}

	return id, nil
}

func (r *LikeRepo) ExistsReverse(ctx context.Context, tx pgx.Tx, fromUserID, toUserID int64) (bool, error) {
	if fromUserID <= 0 || toUserID <= 0 {
		return false, fmt.Errorf("invalid like lookup payload")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	var one int
	err := tx.QueryRow(ctx, `
SELECT 1
FROM likes
WHERE from_user_id = $2 AND to_user_id = $1
LIMIT 1
`, fromUserID, toUserID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup reciprocal like: %w", err)
	}

	return true, nil
}

// GetBetween returns the like fromUserID sent toUserID, if any.
func (r *LikeRepo) GetBetween(ctx context.Context, fromUserID, toUserID int64) (*model.Like, error) {
	if fromUserID <= 0 || toUserID <= 0 {
		return nil, fmt.Errorf("invalid like lookup payload")
	}

	var like model.Like
	var targetKind string
	err := r.pool.QueryRow(ctx, `
SELECT id, from_user_id, to_user_id, target_kind, photo_id, prompt_answer_id, COALESCE(comment, ''), created_at
FROM likes
WHERE from_user_id = $1 AND to_user_id = $2
LIMIT 1
`, fromUserID, toUserID).Scan(
		&like.ID,
		&like.FromUserID,
		&like.ToUserID,
		&targetKind,
		&like.PhotoID,
		&like.PromptAnswerID,
		&like.Comment,
		&like.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get like: %w", err)
	}
	like.TargetKind = enums.LikeTarget(targetKind)

	return &like, nil
}

type IncomingLikeRecord struct {
	model.Like
	DisplayName string
	PhotoURL    string
}

// ListIncoming returns likes received that have not yet turned into a match,
// newest first. Blocked likers are filtered out in both directions.
func (r *LikeRepo) ListIncoming(ctx context.Context, userID int64, limit int) ([]IncomingLikeRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	l.id,
	l.from_user_id,
	l.to_user_id,
	l.target_kind,
	l.photo_id,
	l.prompt_answer_id,
	COALESCE(l.comment, ''),
	l.created_at,
	COALESCE(p.display_name, ''),
	COALESCE((
		SELECT ph.url FROM photos ph
		WHERE ph.user_id = l.from_user_id
		ORDER BY ph.position LIMIT 1
	), '')
FROM likes l
JOIN profiles p ON p.user_id = l.from_user_id
WHERE
	l.to_user_id = $1
	AND NOT EXISTS (
		SELECT 1
		FROM matches m
		WHERE m.user1_id = LEAST(l.from_user_id, l.to_user_id)
			AND m.user2_id = GREATEST(l.from_user_id, l.to_user_id)
	)
	AND NOT EXISTS (
		SELECT 1
		FROM blocks b
		WHERE (b.blocker_id = $1 AND b.blocked_id = l.from_user_id)
			OR (b.blocker_id = l.from_user_id AND b.blocked_id = $1)
	)
ORDER BY l.created_at DESC, l.id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list incoming likes: %w", err)
	}
	defer rows.Close()

	items := make([]IncomingLikeRecord, 0, limit)
	for rows.Next() {
		var rec IncomingLikeRecord
		var targetKind string
		if err := rows.Scan(
			&rec.ID,
			&rec.FromUserID,
			&rec.ToUserID,
			&targetKind,
			&rec.PhotoID,
			&rec.PromptAnswerID,
			&rec.Comment,
			&rec.CreatedAt,
			&rec.DisplayName,
			&rec.PhotoURL,
		); err != nil {
			return nil, fmt.Errorf("scan incoming like: %w", err)
		}
		rec.TargetKind = enums.LikeTarget(targetKind)
		items = append(items, rec)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate incoming likes: %w", rows.Err())
	}

	return items, nil
}
