package messages

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Anayo007/linkup/internal/domain/model"
	"github.com/Anayo007/linkup/internal/infra/pusher"
	pgrepo "github.com/Anayo007/linkup/internal/repo/postgres"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrMatchNotFound = errors.New("match not found")
	ErrBlocked       = errors.New("conversation unavailable")
	ErrForbidden     = errors.New("forbidden channel")
)

const maxMessageLength = 2000

type MatchStore interface {
	GetByID(ctx context.Context, matchID int64) (model.Match, error)
	BumpLastMessage(ctx context.Context, tx pgx.Tx, matchID int64, at time.Time) error
}

type MessageStore interface {
	Insert(ctx context.Context, tx pgx.Tx, msg model.Message, now time.Time) (model.Message, error)
	ListByMatch(ctx context.Context, matchID int64, limit int) ([]model.Message, error)
	MarkRead(ctx context.Context, matchID, readerID int64, now time.Time) (int64, error)
}

type BlockStore interface {
	ExistsBetween(ctx context.Context, userA, userB int64) (bool, error)
}

type Relay interface {
	Trigger(ctx context.Context, channel, event string, data any) error
	AuthorizePrivateChannel(params []byte) ([]byte, error)
}

type Service struct {
	runTx    func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	matches  MatchStore
	messages MessageStore
	blocks   BlockStore
	relay    Relay
	log      *zap.Logger
	now      func() time.Time
}

type Dependencies struct {
	Pool     *pgxpool.Pool
	Matches  MatchStore
	Messages MessageStore
	Blocks   BlockStore
	Relay    Relay
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
		messages: deps.Messages,
		blocks:   deps.Blocks,
		relay:    deps.Relay,
		log:      log,
		now:      time.Now,
	}
}

// membership loads the match and hides it from non-members.
func (s *Service) membership(ctx context.Context, userID, matchID int64) (model.Match, error) {
	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return model.Match{}, ErrMatchNotFound
		}
		return model.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !m.Has(userID) {
		return model.Match{}, ErrMatchNotFound
	}
	return m, nil
}

// Send delivers a message into a match the sender belongs to. The insert
// and the conversation bump commit together; the realtime event fires
// after commit and never fails the send.
func (s *Service) Send(ctx context.Context, senderID, matchID int64, text, imageURL string) (model.Message, error) {
	if senderID <= 0 || matchID <= 0 {
		return model.Message{}, ErrValidation
	}
	text = strings.TrimSpace(text)
	if text == "" && imageURL == "" {
		return model.Message{}, ErrValidation
	}
	if utf8.RuneCountInString(text) > maxMessageLength {
		return model.Message{}, ErrValidation
	}

	m, err := s.membership(ctx, senderID, matchID)
	if err != nil {
		return model.Message{}, err
	}

	other := m.OtherUser(senderID)
	blocked, err := s.blocks.ExistsBetween(ctx, senderID, other)
	if err != nil {
		return model.Message{}, fmt.Errorf("check block: %w", err)
	}
	if blocked {
		return model.Message{}, ErrBlocked
	}

	now := s.now().UTC()
	var saved model.Message
	err = s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		saved, err = s.messages.Insert(txCtx, tx, model.Message{
			MatchID:  matchID,
			SenderID: senderID,
			Text:     text,
			ImageURL: imageURL,
		}, now)
		if err != nil {
			return err
		}
		return s.matches.BumpLastMessage(txCtx, tx, matchID, now)
	})
	if err != nil {
		return model.Message{}, err
	}

	s.trigger(ctx, pusher.MatchChannel(matchID), pusher.EventNewMessage, saved)
	s.trigger(ctx, pusher.UserChannel(other), pusher.EventNewMessage, map[string]any{
		"match_id":   matchID,
		"message_id": saved.ID,
		"sender_id":  senderID,
	})
	return saved, nil
}

// List returns the conversation oldest first and marks the other side's
// messages as read. Readers learn about the read receipt over the match
// channel.
func (s *Service) List(ctx context.Context, userID, matchID int64, limit int) ([]model.Message, error) {
	if userID <= 0 || matchID <= 0 {
		return nil, ErrValidation
	}
	if _, err := s.membership(ctx, userID, matchID); err != nil {
		return nil, err
	}

	items, err := s.messages.ListByMatch(ctx, matchID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	marked, err := s.messages.MarkRead(ctx, matchID, userID, s.now().UTC())
	if err != nil {
		s.log.Warn("mark read failed", zap.Int64("match_id", matchID), zap.Error(err))
	} else if marked > 0 {
		s.trigger(ctx, pusher.MatchChannel(matchID), pusher.EventMessageRead, map[string]any{
			"match_id":  matchID,
			"reader_id": userID,
		})
	}
	return items, nil
}

// Typing broadcasts a typing indicator on the match channel.
func (s *Service) Typing(ctx context.Context, userID, matchID int64, active bool) error {
	if userID <= 0 || matchID <= 0 {
		return ErrValidation
	}
	if _, err := s.membership(ctx, userID, matchID); err != nil {
		return err
	}

	event := pusher.EventTypingStop
	if active {
		event = pusher.EventTypingStart
	}
	if err := s.relay.Trigger(ctx, pusher.MatchChannel(matchID), event, map[string]any{
		"match_id": matchID,
		"user_id":  userID,
	}); err != nil {
		return fmt.Errorf("trigger typing: %w", err)
	}
	return nil
}

// AuthorizeChannel signs a private channel subscription after checking the
// caller may join it: their own user channel, a match channel for a match
// they belong to, or the shared presence channel.
func (s *Service) AuthorizeChannel(ctx context.Context, userID int64, socketID, channel string) ([]byte, error) {
	if userID <= 0 || socketID == "" || channel == "" {
		return nil, ErrValidation
	}

	switch {
	case channel == pusher.PresenceChannel():
	case strings.HasPrefix(channel, "private-user-"):
		id, err := strconv.ParseInt(strings.TrimPrefix(channel, "private-user-"), 10, 64)
		if err != nil || id != userID {
			return nil, ErrForbidden
		}
	case strings.HasPrefix(channel, "private-match-"):
		id, err := strconv.ParseInt(strings.TrimPrefix(channel, "private-match-"), 10, 64)
		if err != nil {
			return nil, ErrForbidden
		}
		if _, err := s.membership(ctx, userID, id); err != nil {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	params := url.Values{}
	params.Set("socket_id", socketID)
	params.Set("channel_name", channel)
	auth, err := s.relay.AuthorizePrivateChannel([]byte(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("authorize channel: %w", err)
	}
	return auth, nil
}

func (s *Service) trigger(ctx context.Context, channel, event string, data any) {
	if err := s.relay.Trigger(ctx, channel, event, data); err != nil {
		s.log.Warn("realtime event failed",
			zap.String("channel", channel),
			zap.String("event", event),
			zap.Error(err),
		)
	}
}
