package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Anayo007/linkup/internal/domain/model"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `
	id,
	email,
	password_hash,
	is_admin,
	is_banned,
	suspended_until,
	subscription_tier,
	last_active,
	created_at
`

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.IsAdmin,
		&u.IsBanned,
		&u.SuspendedUntil,
		&u.Tier,
		&u.LastActive,
		&u.CreatedAt,
	)
	return u, err
}

func (r *UserRepo) Create(ctx context.Context, email, passwordHash string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || passwordHash == "" {
		return model.User{}, fmt.Errorf("invalid user payload")
	}

	u, err := scanUser(r.pool.QueryRow(ctx, `
INSERT INTO users (
	email,
	password_hash,
	subscription_tier,
	created_at
) VALUES ($1, $2, 'free', NOW())
RETURNING`+userColumns, email, passwordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, fmt.Errorf("invalid user id")
	}

	u, err := scanUser(r.pool.QueryRow(ctx, `
SELECT`+userColumns+`
FROM users
WHERE id = $1
LIMIT 1
`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("get user by id: %w", err)
	}

	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return model.User{}, fmt.Errorf("invalid email")
	}

	u, err := scanUser(r.pool.QueryRow(ctx, `
SELECT`+userColumns+`
FROM users
WHERE email = $1
LIMIT 1
`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("get user by email: %w", err)
	}

	return u, nil
}

func (r *UserRepo) TouchLastActive(ctx context.Context, userID int64, now time.Time) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	if _, err := r.pool.Exec(ctx, `
UPDATE users
SET last_active = $2
WHERE id = $1
`, userID, now.UTC()); err != nil {
		return fmt.Errorf("touch last active: %w", err)
	}

	return nil
}

func (r *UserRepo) LastActive(ctx context.Context, userID int64) (*time.Time, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}

	var last *time.Time
	err := r.pool.QueryRow(ctx, `
SELECT last_active
FROM users
WHERE id = $1
LIMIT 1
`, userID).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get last active: %w", err)
	}

	return last, nil
}

func (r *UserRepo) SetBanned(ctx context.Context, tx pgx.Tx, userID int64, banned bool) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	result, err := exec(ctx, r.pool, tx, `
UPDATE users
SET is_banned = $2
WHERE id = $1
`, userID, banned)
	if err != nil {
		return fmt.Errorf("set banned: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *UserRepo) SetSuspendedUntil(ctx context.Context, tx pgx.Tx, userID int64, until *time.Time) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	result, err := exec(ctx, r.pool, tx, `
UPDATE users
SET suspended_until = $2
WHERE id = $1
`, userID, until)
	if err != nil {
		return fmt.Errorf("set suspended until: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *UserRepo) SetAdmin(ctx context.Context, userID int64, isAdmin bool) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE users
SET is_admin = $2
WHERE id = $1
`, userID, isAdmin)
	if err != nil {
		return fmt.Errorf("set admin: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *UserRepo) SetTier(ctx context.Context, userID int64, tier string) error {
	if userID <= 0 || strings.TrimSpace(tier) == "" {
		return fmt.Errorf("invalid tier payload")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE users
SET subscription_tier = $2
WHERE id = $1
`, userID, tier)
	if err != nil {
		return fmt.Errorf("set tier: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Delete removes the account; dependent rows go with it via ON DELETE CASCADE.
func (r *UserRepo) Delete(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM users
WHERE id = $1
`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

type UserSearchQuery struct {
	Query  string
	Status string // "", "active", "banned", "suspended"
	Limit  int
	Offset int
}

type UserAdminRecord struct {
	model.User
	DisplayName string
	ReportCount int
}

func (r *UserRepo) Search(ctx context.Context, q UserSearchQuery) ([]UserAdminRecord, int, error) {
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	pattern := "%" + strings.ToLower(strings.TrimSpace(q.Query)) + "%"
	applySearch := strings.TrimSpace(q.Query) != ""
	status := strings.ToLower(strings.TrimSpace(q.Status))

	where := `
WHERE
	($1::boolean = FALSE OR LOWER(u.email) LIKE $2 OR LOWER(COALESCE(p.display_name, '')) LIKE $2)
	AND (
		$3 = ''
		OR ($3 = 'banned' AND u.is_banned = TRUE)
		OR ($3 = 'suspended' AND u.suspended_until IS NOT NULL AND u.suspended_until > NOW())
		OR ($3 = 'active' AND u.is_banned = FALSE AND (u.suspended_until IS NULL OR u.suspended_until <= NOW()))
	)
`

	var total int
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM users u
LEFT JOIN profiles p ON p.user_id = u.id
`+where, applySearch, pattern, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	u.id,
	u.email,
	u.password_hash,
	u.is_admin,
	u.is_banned,
	u.suspended_until,
	u.subscription_tier,
	u.last_active,
	u.created_at,
	COALESCE(p.display_name, ''),
	(SELECT COUNT(*) FROM reports rep WHERE rep.reported_id = u.id)
FROM users u
LEFT JOIN profiles p ON p.user_id = u.id
`+where+`
ORDER BY u.created_at DESC, u.id DESC
LIMIT $4 OFFSET $5
`, applySearch, pattern, status, q.Limit, q.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	items := make([]UserAdminRecord, 0, q.Limit)
	for rows.Next() {
		var rec UserAdminRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Email,
			&rec.PasswordHash,
			&rec.IsAdmin,
			&rec.IsBanned,
			&rec.SuspendedUntil,
			&rec.Tier,
			&rec.LastActive,
			&rec.CreatedAt,
			&rec.DisplayName,
			&rec.ReportCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		items = append(items, rec)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", rows.Err())
	}

	return items, total, nil
}
