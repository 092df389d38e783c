package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/Anayo007/linkup/internal/domain/model"
	pgrepo "github.com/Anayo007/linkup/internal/repo/postgres"
)

type settingsStoreStub struct {
	stored model.AppSettings
	stats  pgrepo.OverviewStats
}

func (s *settingsStoreStub) Get(context.Context) (model.AppSettings, error) {
	return s.stored, nil
}

func (s *settingsStoreStub) Upsert(_ context.Context, in model.AppSettings) error {
	s.stored = in
	return nil
}

func (s *settingsStoreStub) Overview(context.Context) (pgrepo.OverviewStats, error) {
	return s.stats, nil
}

type tierStoreStub struct {
	byName map[string]model.SubscriptionTier
}

func (s *tierStoreStub) List(_ context.Context, activeOnly bool) ([]model.SubscriptionTier, error) {
	out := []model.SubscriptionTier{}
	for _, t := range s.byName {
		if activeOnly && !t.IsActive {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *tierStoreStub) GetByName(_ context.Context, name string) (model.SubscriptionTier, error) {
	t, ok := s.byName[name]
	if !ok {
		return model.SubscriptionTier{}, pgrepo.ErrTierNotFound
	}
	return t, nil
}

func (s *tierStoreStub) Update(_ context.Context, t model.SubscriptionTier) error {
	for name, existing := range s.byName {
		if existing.ID == t.ID {
			delete(s.byName, name)
			s.byName[t.Name] = t
			return nil
		}
	}
	return pgrepo.ErrTierNotFound
}

func newFixture() (*Service, *settingsStoreStub, *tierStoreStub) {
	settings := &settingsStoreStub{stored: model.AppSettings{SignupsEnabled: true}}
	tiers := &tierStoreStub{byName: map[string]model.SubscriptionTier{
		"free": {ID: 1, Name: "free", DailyLikes: 10, IsActive: true},
		"plus": {ID: 2, Name: "plus", DailyLikes: -1, DailyUndos: 3, IsActive: false},
	}}
	return NewService(Dependencies{Settings: settings, Tiers: tiers}), settings, tiers
}

func TestUpdateSettings(t *testing.T) {
	svc, store, _ := newFixture()

	got, err := svc.Update(context.Background(), model.AppSettings{MaintenanceMode: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.MaintenanceMessage == "" {
		t.Fatal("maintenance mode should carry a message")
	}
	if !store.stored.MaintenanceMode {
		t.Fatal("settings should be persisted")
	}
	if store.stored.SignupsEnabled {
		t.Fatal("update replaces the row wholesale")
	}
}

func TestListTiersFiltersInactive(t *testing.T) {
	svc, _, _ := newFixture()
	ctx := context.Background()

	public, err := svc.ListTiers(ctx, false)
	if err != nil {
		t.Fatalf("list tiers: %v", err)
	}
	if len(public) != 1 || public[0].Name != "free" {
		t.Fatalf("public listing should hide inactive tiers, got %+v", public)
	}

	admin, err := svc.ListTiers(ctx, true)
	if err != nil {
		t.Fatalf("list all tiers: %v", err)
	}
	if len(admin) != 2 {
		t.Fatalf("admin listing should include inactive tiers, got %+v", admin)
	}
}

func TestUpdateTier(t *testing.T) {
	svc, _, tiers := newFixture()
	ctx := context.Background()

	updated, err := svc.UpdateTier(ctx, model.SubscriptionTier{
		ID: 2, Name: "plus", MonthlyPriceCents: 999, DailyLikes: -1, DailyUndos: 5, IsActive: true,
	})
	if err != nil {
		t.Fatalf("update tier: %v", err)
	}
	if updated.DailyUndos != 5 {
		t.Fatalf("unexpected tier: %+v", updated)
	}
	if tiers.byName["plus"].MonthlyPriceCents != 999 {
		t.Fatal("tier should be persisted")
	}

	if _, err := svc.UpdateTier(ctx, model.SubscriptionTier{ID: 2, Name: "plus", DailyLikes: -2}); !errors.Is(err, ErrValidation) {
		t.Fatalf("quota below -1 should fail, got %v", err)
	}
	if _, err := svc.UpdateTier(ctx, model.SubscriptionTier{ID: 9, Name: "ghost"}); !errors.Is(err, ErrTierNotFound) {
		t.Fatalf("expected ErrTierNotFound, got %v", err)
	}
}

func TestOverview(t *testing.T) {
	svc, store, _ := newFixture()
	store.stats = pgrepo.OverviewStats{Users: 12, Matches: 4, Messages: 77, OpenReports: 2}

	stats, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if stats != store.stats {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
