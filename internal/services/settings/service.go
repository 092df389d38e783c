package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/Anayo007/linkup/internal/domain/enums"
	"github.com/Anayo007/linkup/internal/domain/model"
	pgrepo "github.com/Anayo007/linkup/internal/repo/postgres"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrTierNotFound = errors.New("tier not found")
)

type SettingsStore interface {
	Get(ctx context.Context) (model.AppSettings, error)
	Upsert(ctx context.Context, s model.AppSettings) error
	Overview(ctx context.Context) (pgrepo.OverviewStats, error)
}

type TierStore interface {
	List(ctx context.Context, activeOnly bool) ([]model.SubscriptionTier, error)
	GetByName(ctx context.Context, name string) (model.SubscriptionTier, error)
	Update(ctx context.Context, t model.SubscriptionTier) error
}

type Service struct {
	settings SettingsStore
	tiers    TierStore
}

type Dependencies struct {
	Settings SettingsStore
	Tiers    TierStore
}

func NewService(deps Dependencies) *Service {
	return &Service{settings: deps.Settings, tiers: deps.Tiers}
}

func (s *Service) Get(ctx context.Context) (model.AppSettings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return model.AppSettings{}, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

// Update replaces the singleton settings row.
func (s *Service) Update(ctx context.Context, settings model.AppSettings) (model.AppSettings, error) {
	if settings.MaintenanceMode && settings.MaintenanceMessage == "" {
		settings.MaintenanceMessage = "We'll be right back."
	}
	if err := s.settings.Upsert(ctx, settings); err != nil {
		return model.AppSettings{}, fmt.Errorf("upsert settings: %w", err)
	}
	return settings, nil
}

// ListTiers returns the configured tiers. Public callers see active tiers
// only; the admin screen passes includeInactive.
func (s *Service) ListTiers(ctx context.Context, includeInactive bool) ([]model.SubscriptionTier, error) {
	tiers, err := s.tiers.List(ctx, !includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list tiers: %w", err)
	}
	return tiers, nil
}

// UpdateTier rewrites a tier's pricing, quotas, and feature flags. Quota
// values below -1 make no sense; -1 means unlimited.
func (s *Service) UpdateTier(ctx context.Context, t model.SubscriptionTier) (model.SubscriptionTier, error) {
	if t.ID <= 0 || t.Name == "" {
		return model.SubscriptionTier{}, ErrValidation
	}
	if t.DailyLikes < enums.UnlimitedQuota || t.DailyUndos < enums.UnlimitedQuota {
		return model.SubscriptionTier{}, ErrValidation
	}
	if t.MonthlyPriceCents < 0 || t.YearlyPriceCents < 0 {
		return model.SubscriptionTier{}, ErrValidation
	}

	if err := s.tiers.Update(ctx, t); err != nil {
		if errors.Is(err, pgrepo.ErrTierNotFound) {
			return model.SubscriptionTier{}, ErrTierNotFound
		}
		return model.SubscriptionTier{}, fmt.Errorf("update tier: %w", err)
	}
	return t, nil
}

// Overview returns the dashboard counters.
func (s *Service) Overview(ctx context.Context) (pgrepo.OverviewStats, error) {
	stats, err := s.settings.Overview(ctx)
	if err != nil {
		return pgrepo.OverviewStats{}, fmt.Errorf("overview: %w", err)
	}
	return stats, nil
}
