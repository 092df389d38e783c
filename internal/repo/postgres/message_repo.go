package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Anayo007/linkup/internal/domain/model"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Insert(ctx context.Context, tx pgx.Tx, msg model.Message, now time.Time) (model.Message, error) {
	if msg.MatchID <= 0 || msg.SenderID <= 0 {
		return model.Message{}, fmt.Errorf("invalid message payload")
	}
	if tx == nil {
		return model.Message{}, fmt.Errorf("transaction is required")
	}

	var out model.Message
	err := tx.QueryRow(ctx, `
INSERT INTO messages (
	match_id,
	sender_id,
	text,
	image_url,
	created_at
) VALUES ($1, $2, $3, $4, $5)
RETURNING id, match_id, sender_id, text, COALESCE(image_url, ''), created_at, read_at
`, msg.MatchID, msg.SenderID, msg.Text, msg.ImageURL, now.UTC()).Scan(
		&out.ID,
		&out.MatchID,
		&out.SenderID,
		&out.Text,
		&out.ImageURL,
		&out.CreatedAt,
		&out.ReadAt,
	)
	if err != nil {
		return model.Message{}, fmt.Errorf("insert message: %w", err)
	}

	return out, nil
}

// ListByMatch returns the conversation oldest first.
func (r *MessageRepo) ListByMatch(ctx context.Context, matchID int64, limit int) ([]model.Message, error) {
	if matchID <= 0 {
		return nil, fmt.Errorf("invalid match id")
	}
	if limit <= 0 {
		limit = 200
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, match_id, sender_id, text, COALESCE(image_url, ''), created_at, read_at
FROM messages
WHERE match_id = $1
ORDER BY created_at ASC, id ASC
LIMIT $2
`, matchID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	items := make([]model.Message, 0, 32)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.MatchID, &m.SenderID, &m.Text, &m.ImageURL, &m.CreatedAt, &m.ReadAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		items = append(items, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate messages: %w", rows.Err())
	}

	return items, nil
}

// MarkRead marks the other side's unread messages as read and returns how
// many were affected.
func (r *MessageRepo) MarkRead(ctx context.Context, matchID, readerID int64, now time.Time) (int64, error) {
	if matchID <= 0 || readerID <= 0 {
		return 0, fmt.Errorf("invalid mark read payload")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE messages
SET read_at = $3
WHERE match_id = $1
	AND sender_id <> $2
	AND read_at IS NULL
`, matchID, readerID, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}

	return result.RowsAffected(), nil
}
