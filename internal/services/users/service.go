package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Anayo007/linkup/internal/domain/model"
	pgrepo "github.com/Anayo007/linkup/internal/repo/postgres"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrUserNotFound = errors.New("user not found")
	ErrLastAdmin    = errors.New("cannot demote yourself")
	ErrUnknownTier  = errors.New("unknown tier")
)

const pageSize = 20

type UserStore interface {
	GetByID(ctx context.Context, userID int64) (model.User, error)
	Search(ctx context.Context, q pgrepo.UserSearchQuery) ([]pgrepo.UserAdminRecord, int, error)
	SetBanned(ctx context.Context, tx pgx.Tx, userID int64, banned bool) error
	SetSuspendedUntil(ctx context.Context, tx pgx.Tx, userID int64, until *time.Time) error
	SetAdmin(ctx context.Context, userID int64, isAdmin bool) error
	SetTier(ctx context.Context, userID int64, tier string) error
	Delete(ctx context.Context, userID int64) error
}

type TierStore interface {
	GetByName(ctx context.Context, name string) (model.SubscriptionTier, error)
}

type Page struct {
	Items []pgrepo.UserAdminRecord `json:"items"`
	Total int                      `json:"total"`
}

type Service struct {
	users UserStore
	tiers TierStore
	log   *zap.Logger
}

type Dependencies struct {
	Users UserStore
	Tiers TierStore
	Log   *zap.Logger
}

func NewService(deps Dependencies) *Service {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: deps.Users, tiers: deps.Tiers, log: log}
}

// Search pages through accounts for the admin screen. Status filters to
// active, banned, or suspended; the query matches email or display name.
func (s *Service) Search(ctx context.Context, query, status string, page int) (Page, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case "", "active", "banned", "suspended":
	default:
		return Page{}, ErrValidation
	}
	if page < 1 {
		page = 1
	}

	items, total, err := s.users.Search(ctx, pgrepo.UserSearchQuery{
		Query:  query,
		Status: status,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return Page{}, fmt.Errorf("search users: %w", err)
	}
	return Page{Items: items, Total: total}, nil
}

func (s *Service) Get(ctx context.Context, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, ErrValidation
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Service) SetBanned(ctx context.Context, adminID, userID int64, banned bool) error {
	if adminID <= 0 || userID <= 0 {
		return ErrValidation
	}
	if err := s.users.SetBanned(ctx, nil, userID, banned); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("set banned: %w", err)
	}
	// Unbanning also lifts any leftover suspension.
	if !banned {
		if err := s.users.SetSuspendedUntil(ctx, nil, userID, nil); err != nil {
			s.log.Warn("clear suspension failed", zap.Int64("user_id", userID), zap.Error(err))
		}
	}
	s.log.Info("user ban state changed",
		zap.Int64("admin_id", adminID),
		zap.Int64("user_id", userID),
		zap.Bool("banned", banned),
	)
	return nil
}

// SetAdmin grants or revokes the admin role. Admins cannot demote
// themselves, so the system always keeps at least the acting admin.
func (s *Service) SetAdmin(ctx context.Context, adminID, userID int64, isAdmin bool) error {
	if adminID <= 0 || userID <= 0 {
		return ErrValidation
	}
	if !isAdmin && adminID == userID {
		return ErrLastAdmin
	}
	if err := s.users.SetAdmin(ctx, userID, isAdmin); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("set admin: %w", err)
	}
	s.log.Info("admin role changed",
		zap.Int64("admin_id", adminID),
		zap.Int64("user_id", userID),
		zap.Bool("is_admin", isAdmin),
	)
	return nil
}

// SetTier moves the account to a configured subscription tier.
func (s *Service) SetTier(ctx context.Context, adminID, userID int64, tier string) error {
	if adminID <= 0 || userID <= 0 {
		return ErrValidation
	}
	tier = strings.ToLower(strings.TrimSpace(tier))
	if _, err := s.tiers.GetByName(ctx, tier); err != nil {
		if errors.Is(err, pgrepo.ErrTierNotFound) {
			return ErrUnknownTier
		}
		return fmt.Errorf("get tier: %w", err)
	}
	if err := s.users.SetTier(ctx, userID, tier); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("set tier: %w", err)
	}
	return nil
}

// Delete removes the account and everything hanging off it.
func (s *Service) Delete(ctx context.Context, adminID, userID int64) error {
	if adminID <= 0 || userID <= 0 {
		return ErrValidation
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	s.log.Info("user deleted by admin",
		zap.Int64("admin_id", adminID),
		zap.Int64("user_id", userID),
	)
	return nil
}
