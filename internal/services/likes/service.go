package likes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Anayo007/linkup/internal/domain/enums"
	"github.com/Anayo007/linkup/internal/domain/model"
	"github.com/Anayo007/linkup/internal/domain/rules"
	"github.com/Anayo007/linkup/internal/infra/pusher"
	pgrepo "github.com/Anayo007/linkup/internal/repo/postgres"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrAlreadyLiked = errors.New("already liked this profile")
	ErrSelfLike     = errors.New("cannot like yourself")
	ErrBlocked      = errors.New("profile unavailable")
)

// QuotaExceededError carries the tier limit so the client can render the
// upgrade prompt.
type QuotaExceededError struct {
	Limit int
	Tier  string
}

func (e QuotaExceededError) Error() string {
	return fmt.Sprintf("daily like limit of %d reached on %s tier", e.Limit, e.Tier)
}

type LikeStore interface {
	Insert(ctx context.Context, tx pgx.Tx, like model.Like, now time.Time) (int64, error)
	ExistsReverse(ctx context.Context, tx pgx.Tx, fromUserID, toUserID int64) (bool, error)
	ListIncoming(ctx context.Context, userID int64, limit int) ([]pgrepo.IncomingLikeRecord, error)
}

type MatchStore interface {
	CreateCanonical(ctx context.Context, tx pgx.Tx, userA, userB int64, now time.Time) (int64, bool, error)
}

type QuotaStore interface {
	ConsumeLike(ctx context.Context, tx pgx.Tx, userID int64, dayKey string, limit int) (int, error)
	GetUsage(ctx context.Context, userID int64, dayKey string) (pgrepo.QuotaUsage, error)
}

type BlockStore interface {
	ExistsBetween(ctx context.Context, userA, userB int64) (bool, error)
}

type TierStore interface {
	GetByName(ctx context.Context, name string) (model.SubscriptionTier, error)
}

type UserStore interface {
	GetByID(ctx context.Context, userID int64) (model.User, error)
}

type ProfileStore interface {
	GetMany(ctx context.Context, userIDs []int64) (map[int64]model.Profile, error)
}

type PhotoStore interface {
	ListByUsers(ctx context.Context, userIDs []int64) (map[int64][]model.Photo, error)
}

type Relay interface {
	Trigger(ctx context.Context, channel, event string, data any) error
}

type Config struct {
	FreeLikesPerDay int
}

type LikeInput struct {
	TargetUserID   int64
	TargetKind     enums.LikeTarget
	PhotoID        *int64
	PromptAnswerID *int64
	Comment        string
}

type LikeResult struct {
	MatchCreated bool
	MatchID      int64
	// Other side's summary for the celebration screen, set when a match
	// was created.
	MatchedName     string
	MatchedPhotoURL string
	LikesRemaining  int // -1 when unlimited
}

type Service struct {
	runTx    func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	likes    LikeStore
	matches  MatchStore
	quotas   QuotaStore
	blocks   BlockStore
	tiers    TierStore
	users    UserStore
	profiles ProfileStore
	photos   PhotoStore
	relay    Relay
	log      *zap.Logger
	cfg      Config
	now      func() time.Time
}

type Dependencies struct {
	Pool     *pgxpool.Pool
	Likes    LikeStore
	Matches  MatchStore
	Quotas   QuotaStore
	Blocks   BlockStore
	Tiers    TierStore
	Users    UserStore
	Profiles ProfileStore
	Photos   PhotoStore
	Relay    Relay
	Log      *zap.Logger
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.FreeLikesPerDay <= 0 {
		cfg.FreeLikesPerDay = rules.FreeLikesPerDay
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	pool := deps.Pool
	return &Service{
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, pool, fn)
		},
		likes:    deps.Likes,
		matches:  deps.Matches,
		quotas:   deps.Quotas,
		blocks:   deps.Blocks,
		tiers:    deps.Tiers,
		users:    deps.Users,
		profiles: deps.Profiles,
		photos:   deps.Photos,
		relay:    deps.Relay,
		log:      log,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Like records the directed edge and, when the reverse edge already exists,
// creates the match in the same transaction. The canonical-pair unique index
// makes the mutual-like race collapse to a single match row.
func (s *Service) Like(ctx context.Context, userID int64, in LikeInput) (LikeResult, error) {
	if userID <= 0 || in.TargetUserID <= 0 {
		return LikeResult{}, ErrValidation
	}
	if userID == in.TargetUserID {
		return LikeResult{}, ErrSelfLike
	}
	if in.TargetKind != enums.LikeTargetPhoto && in.TargetKind != enums.LikeTargetPrompt {
		return LikeResult{}, ErrValidation
	}

	if s.blocks != nil {
		blocked, err := s.blocks.ExistsBetween(ctx, userID, in.TargetUserID)
		if err != nil {
			return LikeResult{}, fmt.Errorf("check block: %w", err)
		}
		if blocked {
			return LikeResult{}, ErrBlocked
		}
	}

	limit, tierName, err := s.likeLimit(ctx, userID)
	if err != nil {
		return LikeResult{}, err
	}

	now := s.now().UTC()
	dayKey := rules.DayKey(now, time.UTC)

	var (
		matchID      int64
		matchCreated bool
		likesUsed    int
	)
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if limit != enums.UnlimitedQuota {
			used, err := s.quotas.ConsumeLike(txCtx, tx, userID, dayKey, limit)
			if err != nil {
				if errors.Is(err, pgrepo.ErrQuotaLimitReached) {
					return QuotaExceededError{Limit: limit, Tier: tierName}
				}
				return err
			}
			likesUsed = used
		}

		like := model.Like{
			FromUserID:     userID,
			ToUserID:       in.TargetUserID,
			TargetKind:     in.TargetKind,
			PhotoID:        in.PhotoID,
			PromptAnswerID: in.PromptAnswerID,
			Comment:        in.Comment,
		}
		if _, err := s.likes.Insert(txCtx, tx, like, now); err != nil {
			if errors.Is(err, pgrepo.ErrLikeExists) {
				return ErrAlreadyLiked
			}
			return err
		}

		mutual, err := s.likes.ExistsReverse(txCtx, tx, userID, in.TargetUserID)
		if err != nil {
			return err
		}
		if mutual {
			id, created, err := s.matches.CreateCanonical(txCtx, tx, userID, in.TargetUserID, now)
			if err != nil {
				return err
			}
			matchID = id
			matchCreated = created
		}
		return nil
	}); err != nil {
		return LikeResult{}, err
	}

	result := LikeResult{
		MatchCreated:   matchCreated,
		MatchID:        matchID,
		LikesRemaining: enums.UnlimitedQuota,
	}
	if limit != enums.UnlimitedQuota {
		result.LikesRemaining = limit - likesUsed
		if result.LikesRemaining < 0 {
			result.LikesRemaining = 0
		}
	}

	if matchCreated {
		s.decorateMatch(ctx, &result, in.TargetUserID)
		s.announceMatch(ctx, matchID, userID, in.TargetUserID)
	}

	return result, nil
}

// Incoming lists likes received; the handler layer gates this on the
// see-who-likes-you tier flag.
func (s *Service) Incoming(ctx context.Context, userID int64, limit int) ([]pgrepo.IncomingLikeRecord, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	return s.likes.ListIncoming(ctx, userID, limit)
}

// Remaining reports today's unspent like budget; -1 means unlimited.
func (s *Service) Remaining(ctx context.Context, userID int64) (int, error) {
	if userID <= 0 {
		return 0, ErrValidation
	}

	limit, _, err := s.likeLimit(ctx, userID)
	if err != nil {
		return 0, err
	}
	if limit == enums.UnlimitedQuota {
		return enums.UnlimitedQuota, nil
	}

	usage, err := s.quotas.GetUsage(ctx, userID, rules.DayKey(s.now().UTC(), time.UTC))
	if err != nil {
		return 0, err
	}

	remaining := limit - usage.LikesUsed
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (s *Service) likeLimit(ctx context.Context, userID int64) (int, string, error) {
	tierName := string(enums.TierFree)
	if s.users != nil {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return 0, "", fmt.Errorf("resolve tier: %w", err)
		}
		tierName = string(enums.NormalizeTierName(user.Tier))
	}

	limit := s.cfg.FreeLikesPerDay
	if s.tiers != nil {
		tier, err := s.tiers.GetByName(ctx, tierName)
		if err != nil {
			if !errors.Is(err, pgrepo.ErrTierNotFound) {
				return 0, "", fmt.Errorf("get tier config: %w", err)
			}
		} else {
			limit = tier.DailyLikes
		}
	}
	if limit == 0 {
		limit = s.cfg.FreeLikesPerDay
	}

	return limit, tierName, nil
}

func (s *Service) decorateMatch(ctx context.Context, result *LikeResult, targetID int64) {
	if s.profiles == nil {
		return
	}
	profiles, err := s.profiles.GetMany(ctx, []int64{targetID})
	if err != nil {
		s.log.Warn("load matched profile", zap.Int64("user_id", targetID), zap.Error(err))
		return
	}
	if p, ok := profiles[targetID]; ok {
		result.MatchedName = p.DisplayName
	}
	if s.photos == nil {
		return
	}
	photos, err := s.photos.ListByUsers(ctx, []int64{targetID})
	if err != nil {
		s.log.Warn("load matched photos", zap.Int64("user_id", targetID), zap.Error(err))
		return
	}
	if ph := photos[targetID]; len(ph) > 0 {
		result.MatchedPhotoURL = ph[0].URL
	}
}

// announceMatch is best-effort: a relay failure never unwinds the match.
func (s *Service) announceMatch(ctx context.Context, matchID, userID, targetID int64) {
	if s.relay == nil {
		return
	}
	payload := map[string]any{"match_id": matchID}
	for _, uid := range []int64{userID, targetID} {
		if err := s.relay.Trigger(ctx, pusher.UserChannel(uid), pusher.EventNewMatch, payload); err != nil {
			s.log.Warn("relay new-match", zap.Int64("user_id", uid), zap.Error(err))
		}
	}
}
