package skips

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Anayo007/linkup/internal/domain/enums"
	"github.com/Anayo007/linkup/internal/domain/model"
	pgrepo "github.com/Anayo007/linkup/internal/repo/postgres"
)

type skipStoreStub struct {
	rows   []model.Skip
	nextID int64
}

func (s *skipStoreStub) Upsert(_ context.Context, skipperID, skippedID int64, now time.Time) error {
	for i, row := range s.rows {
		if row.SkipperID == skipperID && row.SkippedID == skippedID {
			s.rows[i].CreatedAt = now
			return nil
		}
	}
	s.nextID++
	s.rows = append(s.rows, model.Skip{ID: s.nextID, SkipperID: skipperID, SkippedID: skippedID, CreatedAt: now})
	return nil
}

func (s *skipStoreStub) Newest(_ context.Context, _ pgx.Tx, skipperID int64) (model.Skip, error) {
	var newest *model.Skip
	for i := range s.rows {
		row := &s.rows[i]
		if row.SkipperID != skipperID {
			continue
		}
		if newest == nil || row.CreatedAt.After(newest.CreatedAt) ||
			(row.CreatedAt.Equal(newest.CreatedAt) && row.ID > newest.ID) {
			newest = row
		}
	}
	if newest == nil {
		return model.Skip{}, pgrepo.ErrSkipNotFound
	}
	return *newest, nil
}

func (s *skipStoreStub) DeleteByID(_ context.Context, _ pgx.Tx, skipID int64) error {
	for i, row := range s.rows {
		if row.ID == skipID {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return pgrepo.ErrSkipNotFound
}

type quotaStoreStub struct {
	used map[string]int
}

func (s *quotaStoreStub) ConsumeUndo(_ context.Context, _ pgx.Tx, userID int64, dayKey string, limit int) (int, error) {
	key := fmt.Sprintf("%s:%d", dayKey, userID)
	if s.used[key] >= limit {
		return 0, pgrepo.ErrQuotaLimitReached
	}
	s.used[key]++
	return s.used[key], nil
}

type tierStoreStub struct {
	undos map[string]int
}

func (s *tierStoreStub) GetByName(_ context.Context, name string) (model.SubscriptionTier, error) {
	undos, ok := s.undos[name]
	if !ok {
		return model.SubscriptionTier{}, pgrepo.ErrTierNotFound
	}
	return model.SubscriptionTier{Name: name, DailyUndos: undos}, nil
}

type userStoreStub struct {
	tiers map[int64]string
}

func (s *userStoreStub) GetByID(_ context.Context, userID int64) (model.User, error) {
	tier := s.tiers[userID]
	if tier == "" {
		tier = "free"
	}
	return model.User{ID: userID, Tier: tier}, nil
}

type fixture struct {
	svc   *Service
	skips *skipStoreStub
	users *userStoreStub
	clock time.Time
}

func newFixture() *fixture {
	f := &fixture{
		skips: &skipStoreStub{},
		users: &userStoreStub{tiers: map[int64]string{}},
		clock: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(Dependencies{
		Skips:  f.skips,
		Quotas: &quotaStoreStub{used: map[string]int{}},
		Tiers: &tierStoreStub{undos: map[string]int{
			"free":    0,
			"plus":    2,
			"premium": enums.UnlimitedQuota,
		}},
		Users: f.users,
	}, Config{})
	f.svc.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return fn(ctx, nil)
	}
	f.svc.now = func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}
	return f
}

func TestUndoPeelsNewestFirst(t *testing.T) {
	f := newFixture()
	f.users.tiers[1] = "plus"

	for _, target := range []int64{10, 20, 30} {
		if err := f.svc.Skip(context.Background(), 1, target); err != nil {
			t.Fatalf("skip %d: %v", target, err)
		}
	}

	first, err := f.svc.Undo(context.Background(), 1)
	if err != nil {
		t.Fatalf("first undo: %v", err)
	}
	if first.RestoredUserID != 30 {
		t.Fatalf("first undo should restore 30, got %d", first.RestoredUserID)
	}

	second, err := f.svc.Undo(context.Background(), 1)
	if err != nil {
		t.Fatalf("second undo: %v", err)
	}
	if second.RestoredUserID != 20 {
		t.Fatalf("second undo should restore 20, got %d", second.RestoredUserID)
	}
}

func TestUndoQuotaBlocksThird(t *testing.T) {
	f := newFixture()
	f.users.tiers[1] = "plus" // 2 undos per day

	for _, target := range []int64{10, 20, 30} {
		if err := f.svc.Skip(context.Background(), 1, target); err != nil {
			t.Fatalf("skip %d: %v", target, err)
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := f.svc.Undo(context.Background(), 1); err != nil {
			t.Fatalf("undo %d: %v", i, err)
		}
	}

	_, err := f.svc.Undo(context.Background(), 1)
	var quotaErr QuotaExceededError
	if !errors.As(err, &quotaErr) {
		t.Fatalf("expected QuotaExceededError, got %v", err)
	}
	if quotaErr.Limit != 2 || quotaErr.Tier != "plus" {
		t.Fatalf("unexpected quota error payload: %+v", quotaErr)
	}
	if len(f.skips.rows) != 1 {
		t.Fatalf("blocked undo must not delete the remaining skip, got %d rows", len(f.skips.rows))
	}
}

func TestUndoOnFreeTierNotAllowed(t *testing.T) {
	f := newFixture()

	if err := f.svc.Skip(context.Background(), 1, 10); err != nil {
		t.Fatalf("skip: %v", err)
	}
	if _, err := f.svc.Undo(context.Background(), 1); !errors.Is(err, ErrUndoNotAllowed) {
		t.Fatalf("expected ErrUndoNotAllowed, got %v", err)
	}
}

func TestUndoWithEmptyStack(t *testing.T) {
	f := newFixture()
	f.users.tiers[1] = "premium"

	if _, err := f.svc.Undo(context.Background(), 1); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestUnlimitedUndosOnPremium(t *testing.T) {
	f := newFixture()
	f.users.tiers[1] = "premium"

	for _, target := range []int64{10, 20, 30, 40, 50} {
		if err := f.svc.Skip(context.Background(), 1, target); err != nil {
			t.Fatalf("skip %d: %v", target, err)
		}
	}
	for want := int64(50); want >= 10; want -= 10 {
		result, err := f.svc.Undo(context.Background(), 1)
		if err != nil {
			t.Fatalf("undo expecting %d: %v", want, err)
		}
		if result.RestoredUserID != want {
			t.Fatalf("expected %d restored, got %d", want, result.RestoredUserID)
		}
		if result.UndosRemaining != enums.UnlimitedQuota {
			t.Fatalf("expected unlimited remaining, got %d", result.UndosRemaining)
		}
	}
}

func TestReSkipRefreshesLIFOOrder(t *testing.T) {
	f := newFixture()
	f.users.tiers[1] = "premium"

	for _, target := range []int64{10, 20} {
		if err := f.svc.Skip(context.Background(), 1, target); err != nil {
			t.Fatalf("skip %d: %v", target, err)
		}
	}
	// Skipping 10 again makes it the newest decision.
	if err := f.svc.Skip(context.Background(), 1, 10); err != nil {
		t.Fatalf("re-skip: %v", err)
	}

	result, err := f.svc.Undo(context.Background(), 1)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if result.RestoredUserID != 10 {
		t.Fatalf("re-skipped profile should be restored first, got %d", result.RestoredUserID)
	}
}

func TestSkipValidation(t *testing.T) {
	f := newFixture()

	if err := f.svc.Skip(context.Background(), 1, 1); !errors.Is(err, ErrSelfSkip) {
		t.Fatalf("expected ErrSelfSkip, got %v", err)
	}
	if err := f.svc.Skip(context.Background(), 0, 2); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
