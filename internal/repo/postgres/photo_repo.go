package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Anayo007/linkup/internal/domain/model"
)

type PhotoRepo struct {
	pool *pgxpool.Pool
}

func NewPhotoRepo(pool *pgxpool.Pool) *PhotoRepo {
	return &PhotoRepo{pool: pool}
}

// ReplaceAll rewrites the user's photo set; positions are re-indexed from 0
// in slice order.
func (r *PhotoRepo) ReplaceAll(ctx context.Context, tx pgx.Tx, userID int64, photos []model.Photo) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
DELETE FROM photos
WHERE user_id = $1
`, userID); err != nil {
		return fmt.Errorf("clear photos: %w", err)
	}

	for i, photo := range photos {
		if _, err := tx.Exec(ctx, `
INSERT INTO photos (
	user_id,
	url,
	object_key,
	position
) VALUES ($1, $2, $3, $4)
`, userID, photo.URL, photo.ObjectKey, i); err != nil {
			return fmt.Errorf("insert photo %d: %w", i, err)
		}
	}

	return nil
}

func (r *PhotoRepo) ListByUser(ctx context.Context, userID int64) ([]model.Photo, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}

	byUser, err := r.ListByUsers(ctx, []int64{userID})
	if err != nil {
		return nil, err
	}
	return byUser[userID], nil
}

// ListByUsers returns each user's photos ordered by position.
func (r *PhotoRepo) ListByUsers(ctx context.Context, userIDs []int64) (map[int64][]model.Photo, error) {
	out := make(map[int64][]model.Photo, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, url, object_key, position
FROM photos
WHERE user_id = ANY($1)
ORDER BY user_id, position
`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p model.Photo
		if err := rows.Scan(&p.ID, &p.UserID, &p.URL, &p.ObjectKey, &p.Position); err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		out[p.UserID] = append(out[p.UserID], p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate photos: %w", rows.Err())
	}

	return out, nil
}
