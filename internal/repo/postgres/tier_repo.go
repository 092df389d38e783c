package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Anayo007/linkup/internal/domain/model"
)

var ErrTierNotFound = errors.New("subscription tier not found")

type TierRepo struct {
	pool *pgxpool.Pool
}

func NewTierRepo(pool *pgxpool.Pool) *TierRepo {
	return &TierRepo{pool: pool}
}

const tierColumns = `
	id,
	name,
	display_name,
	COALESCE(description, ''),
	monthly_price_cents,
	yearly_price_cents,
	daily_likes,
	daily_undos,
	see_who_likes_you,
	advanced_filters,
	read_receipts,
	priority_support,
	profile_boost,
	no_ads,
	COALESCE(badge_color, ''),
	COALESCE(badge_icon, ''),
	sort_order,
	is_active
`

func scanTier(row pgx.Row) (model.SubscriptionTier, error) {
	var t model.SubscriptionTier
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.DisplayName,
		&t.Description,
		&t.MonthlyPriceCents,
		&t.YearlyPriceCents,
		&t.DailyLikes,
		&t.DailyUndos,
		&t.SeeWhoLikesYou,
		&t.AdvancedFilters,
		&t.ReadReceipts,
		&t.PrioritySupport,
		&t.ProfileBoost,
		&t.NoAds,
		&t.BadgeColor,
		&t.BadgeIcon,
		&t.SortOrder,
		&t.IsActive,
	)
	return t, err
}

func (r *TierRepo) GetByName(ctx context.Context, name string) (model.SubscriptionTier, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return model.SubscriptionTier{}, fmt.Errorf("invalid tier name")
	}

	t, err := scanTier(r.pool.QueryRow(ctx, `
SELECT`+tierColumns+`
FROM subscription_tiers
WHERE name = $1
LIMIT 1
`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SubscriptionTier{}, ErrTierNotFound
		}
		return model.SubscriptionTier{}, fmt.Errorf("get tier: %w", err)
	}

	return t, nil
}

func (r *TierRepo) List(ctx context.Context, activeOnly bool) ([]model.SubscriptionTier, error) {
	rows, err := r.pool.Query(ctx, `
SELECT`+tierColumns+`
FROM subscription_tiers
WHERE $1::boolean = FALSE OR is_active = TRUE
ORDER BY sort_order, id
`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list tiers: %w", err)
	}
	defer rows.Close()

	items := []model.SubscriptionTier{}
	for rows.Next() {
		t, err := scanTier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tier: %w", err)
		}
		items = append(items, t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate tiers: %w", rows.Err())
	}

	return items, nil
}

func (r *TierRepo) Update(ctx context.Context, t model.SubscriptionTier) error {
	if t.ID <= 0 {
		return fmt.Errorf("invalid tier payload")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE subscription_tiers
SET
	display_name = $2,
	description = $3,
	monthly_price_cents = $4,
	yearly_price_cents = $5,
	daily_likes = $6,
	daily_undos = $7,
	see_who_likes_you = $8,
	advanced_filters = $9,
	read_receipts = $10,
	priority_support = $11,
	profile_boost = $12,
	no_ads = $13,
	badge_color = $14,
	badge_icon = $15,
	sort_order = $16,
	is_active = $17
WHERE id = $1
`, t.ID,
		t.DisplayName,
		t.Description,
		t.MonthlyPriceCents,
		t.YearlyPriceCents,
		t.DailyLikes,
		t.DailyUndos,
		t.SeeWhoLikesYou,
		t.AdvancedFilters,
		t.ReadReceipts,
		t.PrioritySupport,
		t.ProfileBoost,
		t.NoAds,
		t.BadgeColor,
		t.BadgeIcon,
		t.SortOrder,
		t.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update tier: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrTierNotFound
	}

	return nil
}
