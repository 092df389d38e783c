package matches

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
	pgrepo "github.com/Anayo007/linkup/internal/repo/postgres"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrMatchNotFound       = errors.New("match not found")
	ErrInvalidReportReason = errors.New("invalid report reason")
)

type MatchStore interface {
	GetByID(ctx context.Context, matchID int64) (model.Match, error)
	ListForUser(ctx context.Context, userID int64, limit int) ([]pgrepo.MatchSummaryRecord, error)
	DeleteByID(ctx context.Context, matchID int64) error
	DeleteByUsers(ctx context.Context, tx pgx.Tx, userA, userB int64) (bool, error)
}

type BlockStore interface {
	Upsert(ctx context.Context, tx pgx.Tx, blockerID, blockedID int64, now time.Time) error
	Delete(ctx context.Context, blockerID, blockedID int64) (bool, error)
}

type ReportStore interface {
	Create(ctx context.Context, rep model.Report, now time.Time) (model.Report, error)
}

// PresenceStore answers online status for a batch of users. Backed by
// redis; failures degrade the list to all-offline rather than erroring.
type PresenceStore interface {
	OnlineSet(ctx context.Context, userIDs []int64) (map[int64]bool, error)
}

// MatchSummary is one conversation row in the inbox.
type MatchSummary struct {
	MatchID         int64      `json:"match_id"`
	OtherUserID     int64      `json:"other_user_id"`
	DisplayName     string     `json:"display_name"`
	Age             int        `json:"age"`
	PhotoURL        string     `json:"photo_url,omitempty"`
	LastMessageText string     `json:"last_message_text,omitempty"`
	LastMessageMine bool       `json:"last_message_mine"`
	UnreadCount     int        `json:"unread_count"`
	IsOnline        bool       `json:"is_online"`
	MatchedAt       time.Time  `json:"matched_at"`
	LastMessageAt   *time.Time `json:"last_message_at,omitempty"`
}

type Service struct {
	runTx    func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	matches  MatchStore
	blocks   BlockStore
	reports  ReportStore
	presence PresenceStore
	log      *zap.Logger
	now      func() time.Time
}

type Dependencies struct {
	Pool     *pgxpool.Pool
	Matches  MatchStore
	Blocks   BlockStore
	Reports  ReportStore
	Presence PresenceStore
	Log      *zap.Logger
}

func NewService(deps Dependencies) *Service {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	pool := deps.Pool
	return &Service{
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, pool, fn)
		},
		matches:  deps.Matches,
		blocks:   deps.Blocks,
		reports:  deps.Reports,
		presence: deps.Presence,
		log:      log,
		now:      time.Now,
	}
}

// List returns the user's inbox: latest conversation first, unmessaged
// matches after by match recency. Online indicators are best-effort.
func (s *Service) List(ctx context.Context, userID int64, limit int) ([]MatchSummary, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}

	rows, err := s.matches.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	online := map[int64]bool{}
	if s.presence != nil && len(rows) > 0 {
		ids := make([]int64, len(rows))
		for i, row := range rows {
			ids[i] = row.OtherUserID
		}
		online, err = s.presence.OnlineSet(ctx, ids)
		if err != nil {
			s.log.Warn("presence lookup failed", zap.Error(err))
			online = map[int64]bool{}
		}
	}

	now := s.now().UTC()
	items := make([]MatchSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, MatchSummary{
			MatchID:         row.ID,
			OtherUserID:     row.OtherUserID,
			DisplayName:     row.DisplayName,
			Age:             rules.Age(row.Birthdate, now),
			PhotoURL:        row.PhotoURL,
			LastMessageText: row.LastMessageText,
			LastMessageMine: row.LastSenderID == userID,
			UnreadCount:     row.UnreadCount,
			IsOnline:        online[row.OtherUserID],
			MatchedAt:       row.CreatedAt,
			LastMessageAt:   row.LastMessageAt,
		})
	}
	return items, nil
}

// Unmatch removes a match the caller is part of. A match the caller does
// not belong to reads as not found.
func (s *Service) Unmatch(ctx context.Context, userID, matchID int64) error {
	if userID <= 0 || matchID <= 0 {
		return ErrValidation
	}

	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("get match: %w", err)
	}
	if !m.Has(userID) {
		return ErrMatchNotFound
	}

	if err := s.matches.DeleteByID(ctx, matchID); err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("delete match: %w", err)
	}
	return nil
}

// Block records the block and tears down any match between the pair in the
// same transaction, so the conversation disappears atomically.
func (s *Service) Block(ctx context.Context, userID, targetID int64) error {
	if userID <= 0 || targetID <= 0 || userID == targetID {
		return ErrValidation
	}

	now := s.now().UTC()
	return s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if err := s.blocks.Upsert(txCtx, tx, userID, targetID, now); err != nil {
			return fmt.Errorf("upsert block: %w", err)
		}
		if _, err := s.matches.DeleteByUsers(txCtx, tx, userID, targetID); err != nil {
			return fmt.Errorf("delete match: %w", err)
		}
		return nil
	})
}

// Unblock lifts the caller's block. Returns false when no block existed.
// Unblocking never resurrects a match removed by Block.
func (s *Service) Unblock(ctx context.Context, userID, targetID int64) (bool, error) {
	if userID <= 0 || targetID <= 0 || userID == targetID {
		return false, ErrValidation
	}
	removed, err := s.blocks.Delete(ctx, userID, targetID)
	if err != nil {
		return false, fmt.Errorf("delete block: %w", err)
	}
	return removed, nil
}

// Report files a report against another user. Reporting does not block by
// itself.
func (s *Service) Report(ctx context.Context, userID, targetID int64, reason, notes string) (model.Report, error) {
	if userID <= 0 || targetID <= 0 || userID == targetID {
		return model.Report{}, ErrValidation
	}
	parsed, ok := enums.ParseReportReason(reason)
	if !ok {
		return model.Report{}, ErrInvalidReportReason
	}

	rep, err := s.reports.Create(ctx, model.Report{
		ReporterID: userID,
		ReportedID: targetID,
		Reason:     parsed,
		Notes:      notes,
	}, s.now().UTC())
	if err != nil {
		return model.Report{}, fmt.Errorf("create report: %w", err)
	}
	return rep, nil
}
