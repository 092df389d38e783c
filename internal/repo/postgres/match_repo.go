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

var ErrMatchNotFound = errors.New("match not found")

type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

// canonicalPair orders the two ids so user1 < user2, matching the table's
// CHECK constraint.
func canonicalPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

// CreateCanonical inserts the pair in canonical order. The unique index
// absorbs the two-concurrent-likers race: the second insert is a no-op and
// returns (0, false, nil).
func (r *MatchRepo) CreateCanonical(ctx context.Context, tx pgx.Tx, userA, userB int64, now time.Time) (int64, bool, error) {
	if userA <= 0 || userB <= 0 || userA == userB {
		return 0, false, fmt.Errorf("invalid match payload")
	}
	if tx == nil {
		return 0, false, fmt.Errorf("transaction is required")
	}

	user1, user2 := canonicalPair(userA, userB)

	var matchID int64
	err := tx.QueryRow(ctx, `
INSERT INTO matches (
	user1_id,
	user2_id,
	created_at
) VALUES ($1, $2, $3)
ON CONFLICT (user1_id, user2_id) DO NOTHING
RETURNING id
`, user1, user2, now.UTC()).Scan(&matchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("create match: %w", err)
	}

	return matchID, true, nil
}

func scanMatch(row pgx.Row) (model.Match, error) {
	var m model.Match
	err := row.Scan(&m.ID, &m.User1ID, &m.User2ID, &m.CreatedAt, &m.LastMessageAt)
	return m, err
}

func (r *MatchRepo) GetByID(ctx context.Context, matchID int64) (model.Match, error) {
	if matchID <= 0 {
		return model.Match{}, fmt.Errorf("invalid match id")
	}

	m, err := scanMatch(r.pool.QueryRow(ctx, `
SELECT id, user1_id, user2_id, created_at, last_message_at
FROM matches
WHERE id = $1
LIMIT 1
`, matchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, ErrMatchNotFound
		}
		return model.Match{}, fmt.Errorf("get match: %w", err)
	}

	return m, nil
}

func (r *MatchRepo) GetByUsers(ctx context.Context, userA, userB int64) (model.Match, error) {
	if userA <= 0 || userB <= 0 {
		return model.Match{}, fmt.Errorf("invalid match lookup payload")
	}

	user1, user2 := canonicalPair(userA, userB)

	m, err := scanMatch(r.pool.QueryRow(ctx, `
SELECT id, user1_id, user2_id, created_at, last_message_at
FROM matches
WHERE user1_id = $1 AND user2_id = $2
LIMIT 1
`, user1, user2))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, ErrMatchNotFound
		}
		return model.Match{}, fmt.Errorf("get match by users: %w", err)
	}

	return m, nil
}

// DeleteByUsers removes the canonical pair, if present.
func (r *MatchRepo) DeleteByUsers(ctx context.Context, tx pgx.Tx, userA, userB int64) (bool, error) {
	if userA <= 0 || userB <= 0 {
		return false, fmt.Errorf("invalid match delete payload")
	}

	user1, user2 := canonicalPair(userA, userB)

	result, err := exec(ctx, r.pool, tx, `
DELETE FROM matches
WHERE user1_id = $1 AND user2_id = $2
`, user1, user2)
	if err != nil {
		return false, fmt.Errorf("delete match: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *MatchRepo) DeleteByID(ctx context.Context, matchID int64) error {
	if matchID <= 0 {
		return fmt.Errorf("invalid match id")
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM matches
WHERE id = $1
`, matchID)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrMatchNotFound
	}

	return nil
}

func (r *MatchRepo) BumpLastMessage(ctx context.Context, tx pgx.Tx, matchID int64, at time.Time) error {
	if matchID <= 0 {
		return fmt.Errorf("invalid match id")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
UPDATE matches
SET last_message_at = $2
WHERE id = $1
`, matchID, at.UTC()); err != nil {
		return fmt.Errorf("bump last message: %w", err)
	}

	return nil
}

type MatchSummaryRecord struct {
	model.Match
	OtherUserID     int64
	DisplayName     string
	Birthdate       time.Time
	PhotoURL        string
	LastMessageText string
	LastSenderID    int64
	UnreadCount     int
}

// ListForUser returns the user's matches with the other side's summary,
// inbox-ordered: latest conversation first, unmessaged matches after by
// match recency.
func (r *MatchRepo) ListForUser(ctx context.Context, userID int64, limit int) ([]MatchSummaryRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	m.id,
	m.user1_id,
	m.user2_id,
	m.created_at,
	m.last_message_at,
	CASE WHEN m.user1_id = $1 THEN m.user2_id ELSE m.user1_id END AS other_user_id,
	COALESCE(p.display_name, ''),
	p.birthdate,
	COALESCE((
		SELECT ph.url FROM photos ph
		WHERE ph.user_id = CASE WHEN m.user1_id = $1 THEN m.user2_id ELSE m.user1_id END
		ORDER BY ph.position LIMIT 1
	), ''),
	COALESCE((
		SELECT msg.text FROM messages msg
		WHERE msg.match_id = m.id
		ORDER BY msg.created_at DESC, msg.id DESC LIMIT 1
	), ''),
	COALESCE((
		SELECT msg.sender_id FROM messages msg
		WHERE msg.match_id = m.id
		ORDER BY msg.created_at DESC, msg.id DESC LIMIT 1
	), 0),
	(
		SELECT COUNT(*) FROM messages msg
		WHERE msg.match_id = m.id
			AND msg.sender_id <> $1
			AND msg.read_at IS NULL
	)
FROM matches m
JOIN profiles p ON p.user_id = CASE WHEN m.user1_id = $1 THEN m.user2_id ELSE m.user1_id END
WHERE m.user1_id = $1 OR m.user2_id = $1
ORDER BY m.last_message_at DESC NULLS LAST, m.created_at DESC, m.id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	items := make([]MatchSummaryRecord, 0, limit)
	for rows.Next() {
		var rec MatchSummaryRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.User1ID,
			&rec.User2ID,
			&rec.CreatedAt,
			&rec.LastMessageAt,
			&rec.OtherUserID,
			&rec.DisplayName,
			&rec.Birthdate,
			&rec.PhotoURL,
			&rec.LastMessageText,
			&rec.LastSenderID,
			&rec.UnreadCount,
		); err != nil {
			return nil, fmt.Errorf("scan match summary: %w", err)
		}
		items = append(items, rec)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate matches: %w", rows.Err())
	}

	return items, nil
}
