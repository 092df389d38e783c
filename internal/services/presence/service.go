package presence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var ErrValidation = errors.New("validation error")

// OnlineStore is the fast path, a TTL key per user in redis.
type OnlineStore interface {
	Touch(ctx context.Context, userID int64, window time.Duration) error
	IsOnline(ctx context.Context, userID int64) (bool, error)
	OnlineSet(ctx context.Context, userIDs []int64) (map[int64]bool, error)
}

// ActivityStore is the durable fallback in postgres.
type ActivityStore interface {
	TouchLastActive(ctx context.Context, userID int64, at time.Time) error
	LastActive(ctx context.Context, userID int64) (*time.Time, error)
}

type Config struct {
	// OnlineWindow is how long a ping keeps a user online.
	OnlineWindow time.Duration
}

type Service struct {
	online   OnlineStore
	activity ActivityStore
	cfg      Config
	log      *zap.Logger
	now      func() time.Time
}

type Dependencies struct {
	Online   OnlineStore
	Activity ActivityStore
	Log      *zap.Logger
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.OnlineWindow <= 0 {
		cfg.OnlineWindow = 2 * time.Minute
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		online:   deps.Online,
		activity: deps.Activity,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// Ping extends the caller's online window. The durable last-active stamp
// trails behind and its failure never fails the ping.
func (s *Service) Ping(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrValidation
	}
	if err := s.online.Touch(ctx, userID, s.cfg.OnlineWindow); err != nil {
		return fmt.Errorf("touch presence: %w", err)
	}
	if err := s.activity.TouchLastActive(ctx, userID, s.now().UTC()); err != nil {
		s.log.Warn("touch last active failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	return nil
}

// IsOnline checks the redis key first and falls back to the durable
// last-active stamp when redis is unavailable.
func (s *Service) IsOnline(ctx context.Context, userID int64) (bool, error) {
	if userID <= 0 {
		return false, ErrValidation
	}

	online, err := s.online.IsOnline(ctx, userID)
	if err == nil {
		return online, nil
	}
	s.log.Warn("presence lookup failed, falling back to last active", zap.Error(err))

	last, err := s.activity.LastActive(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("last active: %w", err)
	}
	if last == nil {
		return false, nil
	}
	return s.now().UTC().Sub(*last) <= s.cfg.OnlineWindow, nil
}

// OnlineSet reports online status for a batch of users. Failures degrade
// to all-offline so list rendering never blocks on redis.
func (s *Service) OnlineSet(ctx context.Context, userIDs []int64) map[int64]bool {
	out, err := s.online.OnlineSet(ctx, userIDs)
	if err != nil {
		s.log.Warn("presence batch lookup failed", zap.Error(err))
		return map[int64]bool{}
	}
	return out
}
