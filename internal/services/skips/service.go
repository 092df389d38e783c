package skips

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Anayo007/linkup/internal/domain/enums"
	"github.com/Anayo007/linkup/internal/domain/model"
	"github.com/Anayo007/linkup/internal/domain/rules"
	pgrepo "github.com/Anayo007/linkup/internal/repo/postgres"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrSelfSkip      = errors.New("cannot skip yourself")
	ErrNothingToUndo = errors.New("no skips to undo")
	ErrUndoNotAllowed = errors.New("undo is not available on this tier")
)

// QuotaExceededError mirrors the likes service: the tier's daily undo
// budget is spent.
type QuotaExceededError struct {
	Limit int
	Tier  string
}

func (e QuotaExceededError) Error() string {
	return fmt.Sprintf("daily undo limit of %d reached on %s tier", e.Limit, e.Tier)
}

type SkipStore interface {
	Upsert(ctx context.Context, skipperID, skippedID int64, now time.Time) error
	Newest(ctx context.Context, tx pgx.Tx, skipperID int64) (model.Skip, error)
	DeleteByID(ctx context.Context, tx pgx.Tx, skipID int64) error
}

type QuotaStore interface {
	ConsumeUndo(ctx context.Context, tx pgx.Tx, userID int64, dayKey string, limit int) (int, error)
}

type TierStore interface {
	GetByName(ctx context.Context, name string) (model.SubscriptionTier, error)
}

type UserStore interface {
	GetByID(ctx context.Context, userID int64) (model.User, error)
}

type Config struct {
	FreeUndosPerDay int
}

type UndoResult struct {
	// RestoredUserID is the profile put back into discovery rotation.
	RestoredUserID int64
	UndosRemaining int // -1 when unlimited
}

type Service struct {
	runTx  func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	skips  SkipStore
	quotas QuotaStore
	tiers  TierStore
	users  UserStore
	cfg    Config
	now    func() time.Time
}

type Dependencies struct {
	Pool   *pgxpool.Pool
	Skips  SkipStore
	Quotas QuotaStore
	Tiers  TierStore
	Users  UserStore
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.FreeUndosPerDay < 0 {
		cfg.FreeUndosPerDay = rules.FreeUndosPerDay
	}
	pool := deps.Pool

	return &Service{
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, pool, fn)
		},
		skips:  deps.Skips,
		quotas: deps.Quotas,
		tiers:  deps.Tiers,
		users:  deps.Users,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Skip is an idempotent upsert; skipping twice refreshes recency.
func (s *Service) Skip(ctx context.Context, userID, targetID int64) error {
	if userID <= 0 || targetID <= 0 {
		return ErrValidation
	}
	if userID == targetID {
		return ErrSelfSkip
	}
	return s.skips.Upsert(ctx, userID, targetID, s.now().UTC())
}

// Undo peels exactly the newest skip, strictly LIFO, consuming one unit of
// the tier's undo quota first so a failed quota check never deletes the row.
func (s *Service) Undo(ctx context.Context, userID int64) (UndoResult, error) {
	if userID <= 0 {
		return UndoResult{}, ErrValidation
	}

	limit, tierName, err := s.undoLimit(ctx, userID)
	if err != nil {
		return UndoResult{}, err
	}
	if limit == 0 {
		return UndoResult{}, ErrUndoNotAllowed
	}

	now := s.now().UTC()
	dayKey := rules.DayKey(now, time.UTC)

	var (
		restored  int64
		undosUsed int
	)
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if limit != enums.UnlimitedQuota {
			used, err := s.quotas.ConsumeUndo(txCtx, tx, userID, dayKey, limit)
			if err != nil {
				if errors.Is(err, pgrepo.ErrQuotaLimitReached) {
					return QuotaExceededError{Limit: limit, Tier: tierName}
				}
				return err
			}
			undosUsed = used
		}

		newest, err := s.skips.Newest(txCtx, tx, userID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrSkipNotFound) {
				return ErrNothingToUndo
			}
			return err
		}

		if err := s.skips.DeleteByID(txCtx, tx, newest.ID); err != nil {
			return err
		}
		restored = newest.SkippedID
		return nil
	}); err != nil {
		return UndoResult{}, err
	}

	result := UndoResult{RestoredUserID: restored, UndosRemaining: enums.UnlimitedQuota}
	if limit != enums.UnlimitedQuota {
		result.UndosRemaining = limit - undosUsed
		if result.UndosRemaining < 0 {
			result.UndosRemaining = 0
		}
	}

	return result, nil
}

func (s *Service) undoLimit(ctx context.Context, userID int64) (int, string, error) {
	tierName := string(enums.TierFree)
	if s.users != nil {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return 0, "", fmt.Errorf("resolve tier: %w", err)
		}
		tierName = string(enums.NormalizeTierName(user.Tier))
	}

	limit := s.cfg.FreeUndosPerDay
	if s.tiers != nil {
		tier, err := s.tiers.GetByName(ctx, tierName)
		if err != nil {
			if !errors.Is(err, pgrepo.ErrTierNotFound) {
				return 0, "", fmt.Errorf("get tier config: %w", err)
			}
		} else {
			limit = tier.DailyUndos
		}
	}

	return limit, tierName, nil
}
