package likes

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

type edge struct{ from, to int64 }

type likeStoreStub struct {
	edges map[edge]bool
}

func newLikeStoreStub() *likeStoreStub {
	return &likeStoreStub{edges: map[edge]bool{}}
}

func (s *likeStoreStub) Insert(_ context.Context, _ pgx.Tx, like model.Like, _ time.Time) (int64, error) {
	e := edge{like.FromUserID, like.ToUserID}
	if s.edges[e] {
		return 0, pgrepo.ErrLikeExists
	}
	s.edges[e] = true
	return int64(len(s.edges)), nil
}

func (s *likeStoreStub) ExistsReverse(_ context.Context, _ pgx.Tx, fromUserID, toUserID int64) (bool, error) {
	return s.edges[edge{toUserID, fromUserID}], nil
}

func (s *likeStoreStub) ListIncoming(context.Context, int64, int) ([]pgrepo.IncomingLikeRecord, error) {
	return nil, nil
}

type matchStoreStub struct {
	pairs  map[edge]int64
	nextID int64
}

func newMatchStoreStub() *matchStoreStub {
	return &matchStoreStub{pairs: map[edge]int64{}, nextID: 1}
}

func (s *matchStoreStub) CreateCanonical(_ context.Context, _ pgx.Tx, userA, userB int64, _ time.Time) (int64, bool, error) {
	if userA > userB {
		userA, userB = userB, userA
	}
	key := edge{userA, userB}
	if _, ok := s.pairs[key]; ok {
		return 0, false, nil
	}
	id := s.nextID
	s.nextID++
	s.pairs[key] = id
	return id, true, nil
}

type quotaStoreStub struct {
	used map[string]int
}

func newQuotaStoreStub() *quotaStoreStub {
	return &quotaStoreStub{used: map[string]int{}}
}

func (s *quotaStoreStub) ConsumeLike(_ context.Context, _ pgx.Tx, userID int64, dayKey string, limit int) (int, error) {
	key := fmt.Sprintf("%s:%d", dayKey, userID)
	if s.used[key] >= limit {
		return 0, pgrepo.ErrQuotaLimitReached
	}
	s.used[key]++
	return s.used[key], nil
}

func (s *quotaStoreStub) GetUsage(_ context.Context, userID int64, dayKey string) (pgrepo.QuotaUsage, error) {
	return pgrepo.QuotaUsage{LikesUsed: s.used[fmt.Sprintf("%s:%d", dayKey, userID)]}, nil
}

type tierStoreStub struct {
	tiers map[string]model.SubscriptionTier
}

func (s *tierStoreStub) GetByName(_ context.Context, name string) (model.SubscriptionTier, error) {
	t, ok := s.tiers[name]
	if !ok {
		return model.SubscriptionTier{}, pgrepo.ErrTierNotFound
	}
	return t, nil
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

type blockStoreStub struct {
	blocked map[edge]bool
}

func (s *blockStoreStub) ExistsBetween(_ context.Context, a, b int64) (bool, error) {
	return s.blocked[edge{a, b}] || s.blocked[edge{b, a}], nil
}

type relayStub struct {
	events []string
}

func (s *relayStub) Trigger(_ context.Context, channel, event string, _ any) error {
	s.events = append(s.events, channel+"/"+event)
	return nil
}

type fixture struct {
	svc     *Service
	likes   *likeStoreStub
	matches *matchStoreStub
	quotas  *quotaStoreStub
	users   *userStoreStub
	relay   *relayStub
}

func newFixture(freeLimit int) *fixture {
	f := &fixture{
		likes:   newLikeStoreStub(),
		matches: newMatchStoreStub(),
		quotas:  newQuotaStoreStub(),
		users:   &userStoreStub{tiers: map[int64]string{}},
		relay:   &relayStub{},
	}
	f.svc = NewService(Dependencies{
		Likes:   f.likes,
		Matches: f.matches,
		Quotas:  f.quotas,
		Blocks:  &blockStoreStub{blocked: map[edge]bool{}},
		Tiers: &tierStoreStub{tiers: map[string]model.SubscriptionTier{
			"free":    {Name: "free", DailyLikes: freeLimit},
			"premium": {Name: "premium", DailyLikes: enums.UnlimitedQuota},
		}},
		Users:    f.users,
		Relay:    f.relay,
	}, Config{FreeLikesPerDay: freeLimit})
	f.svc.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return fn(ctx, nil)
	}
	return f
}

func photoLike(target int64) LikeInput {
	photoID := int64(1)
	return LikeInput{TargetUserID: target, TargetKind: enums.LikeTargetPhoto, PhotoID: &photoID}
}

func TestLikeWithoutReverseEdgeCreatesNoMatch(t *testing.T) {
	f := newFixture(10)

	result, err := f.svc.Like(context.Background(), 1, photoLike(2))
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if result.MatchCreated {
		t.Fatal("no reverse edge, no match expected")
	}
	if result.LikesRemaining != 9 {
		t.Fatalf("expected 9 likes remaining, got %d", result.LikesRemaining)
	}
	if len(f.relay.events) != 0 {
		t.Fatalf("no relay events expected, got %v", f.relay.events)
	}
}

func TestMutualLikeCreatesSingleMatch(t *testing.T) {
	f := newFixture(10)

	if _, err := f.svc.Like(context.Background(), 2, photoLike(1)); err != nil {
		t.Fatalf("first like: %v", err)
	}
	result, err := f.svc.Like(context.Background(), 1, photoLike(2))
	if err != nil {
		t.Fatalf("second like: %v", err)
	}
	if !result.MatchCreated {
		t.Fatal("mutual like should create a match")
	}
	if len(f.matches.pairs) != 1 {
		t.Fatalf("expected exactly one match row, got %d", len(f.matches.pairs))
	}
	if len(f.relay.events) != 2 {
		t.Fatalf("expected new-match relayed to both users, got %v", f.relay.events)
	}
}

func TestMutualLikeSymmetry(t *testing.T) {
	// Same pair, opposite completion order, same canonical row.
	for _, order := range [][2]int64{{1, 2}, {2, 1}} {
		f := newFixture(10)
		if _, err := f.svc.Like(context.Background(), order[0], photoLike(order[1])); err != nil {
			t.Fatalf("like: %v", err)
		}
		result, err := f.svc.Like(context.Background(), order[1], photoLike(order[0]))
		if err != nil {
			t.Fatalf("like back: %v", err)
		}
		if !result.MatchCreated {
			t.Fatalf("order %v: match expected", order)
		}
		if _, ok := f.matches.pairs[edge{1, 2}]; !ok {
			t.Fatalf("order %v: match should be stored under canonical pair", order)
		}
	}
}

func TestDuplicateLikeConflict(t *testing.T) {
	f := newFixture(10)

	if _, err := f.svc.Like(context.Background(), 1, photoLike(2)); err != nil {
		t.Fatalf("like: %v", err)
	}
	_, err := f.svc.Like(context.Background(), 1, photoLike(2))
	if !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("expected ErrAlreadyLiked, got %v", err)
	}
}

func TestRetryAfterMatchStaysSingleMatch(t *testing.T) {
	f := newFixture(10)

	if _, err := f.svc.Like(context.Background(), 2, photoLike(1)); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := f.svc.Like(context.Background(), 1, photoLike(2)); err != nil {
		t.Fatalf("like back: %v", err)
	}

	if _, err := f.svc.Like(context.Background(), 1, photoLike(2)); !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("retry should conflict, got %v", err)
	}
	if len(f.matches.pairs) != 1 {
		t.Fatalf("retry must not duplicate the match, got %d rows", len(f.matches.pairs))
	}
}

func TestLikeQuotaExceeded(t *testing.T) {
	f := newFixture(2)

	for target := int64(2); target <= 3; target++ {
		if _, err := f.svc.Like(context.Background(), 1, photoLike(target)); err != nil {
			t.Fatalf("like %d: %v", target, err)
		}
	}

	_, err := f.svc.Like(context.Background(), 1, photoLike(4))
	var quotaErr QuotaExceededError
	if !errors.As(err, &quotaErr) {
		t.Fatalf("expected QuotaExceededError, got %v", err)
	}
	if quotaErr.Limit != 2 || quotaErr.Tier != "free" {
		t.Fatalf("unexpected quota error payload: %+v", quotaErr)
	}
	if f.likes.edges[edge{1, 4}] {
		t.Fatal("like beyond quota must not be stored")
	}
}

func TestUnlimitedTierSkipsQuota(t *testing.T) {
	f := newFixture(2)
	f.users.tiers[1] = "premium"

	for target := int64(2); target <= 6; target++ {
		result, err := f.svc.Like(context.Background(), 1, photoLike(target))
		if err != nil {
			t.Fatalf("like %d: %v", target, err)
		}
		if result.LikesRemaining != enums.UnlimitedQuota {
			t.Fatalf("expected unlimited remaining, got %d", result.LikesRemaining)
		}
	}
}

func TestSelfLikeRejected(t *testing.T) {
	f := newFixture(10)

	if _, err := f.svc.Like(context.Background(), 1, photoLike(1)); !errors.Is(err, ErrSelfLike) {
		t.Fatalf("expected ErrSelfLike, got %v", err)
	}
}

func TestLikeRequiresTarget(t *testing.T) {
	f := newFixture(10)

	_, err := f.svc.Like(context.Background(), 1, LikeInput{TargetUserID: 2, TargetKind: "banner"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown target kind, got %v", err)
	}
}
