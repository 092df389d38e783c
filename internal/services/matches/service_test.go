package matches

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Anayo007/linkup/internal/domain/enums"
	"github.com/Anayo007/linkup/internal/domain/model"
	pgrepo "github.com/Anayo007/linkup/internal/repo/postgres"
)

type edge struct{ a, b int64 }

func canonical(a, b int64) edge {
	if a > b {
		a, b = b, a
	}
	return edge{a, b}
}

type matchStoreStub struct {
	byID      map[int64]model.Match
	summaries []pgrepo.MatchSummaryRecord
}

func (s *matchStoreStub) GetByID(_ context.Context, id int64) (model.Match, error) {
	m, ok := s.byID[id]
	if !ok {
		return model.Match{}, pgrepo.ErrMatchNotFound
	}
	return m, nil
}

func (s *matchStoreStub) ListForUser(_ context.Context, userID int64, _ int) ([]pgrepo.MatchSummaryRecord, error) {
	return s.summaries, nil
}

func (s *matchStoreStub) DeleteByID(_ context.Context, id int64) error {
	if _, ok := s.byID[id]; !ok {
		return pgrepo.ErrMatchNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *matchStoreStub) DeleteByUsers(_ context.Context, _ pgx.Tx, a, b int64) (bool, error) {
	want := canonical(a, b)
	for id, m := range s.byID {
		if canonical(m.User1ID, m.User2ID) == want {
			delete(s.byID, id)
			return true, nil
		}
	}
	return false, nil
}

type blockStoreStub struct {
	blocks map[edge]int64 // canonical pair -> blocker
}

func (s *blockStoreStub) Upsert(_ context.Context, _ pgx.Tx, blocker, blocked int64, _ time.Time) error {
	s.blocks[canonical(blocker, blocked)] = blocker
	return nil
}

func (s *blockStoreStub) Delete(_ context.Context, blocker, blocked int64) (bool, error) {
	key := canonical(blocker, blocked)
	owner, ok := s.blocks[key]
	if !ok || owner != blocker {
		return false, nil
	}
	delete(s.blocks, key)
	return true, nil
}

type reportStoreStub struct {
	created []model.Report
}

func (s *reportStoreStub) Create(_ context.Context, rep model.Report, now time.Time) (model.Report, error) {
	rep.ID = int64(len(s.created) + 1)
	rep.Status = enums.ReportStatusOpen
	rep.CreatedAt = now
	s.created = append(s.created, rep)
	return rep, nil
}

type presenceStub struct {
	online map[int64]bool
	err    error
}

func (s *presenceStub) OnlineSet(_ context.Context, ids []int64) (map[int64]bool, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := map[int64]bool{}
	for _, id := range ids {
		out[id] = s.online[id]
	}
	return out, nil
}

type fixture struct {
	svc      *Service
	matches  *matchStoreStub
	blocks   *blockStoreStub
	reports  *reportStoreStub
	presence *presenceStub
}

func newFixture() *fixture {
	f := &fixture{
		matches:  &matchStoreStub{byID: map[int64]model.Match{}},
		blocks:   &blockStoreStub{blocks: map[edge]int64{}},
		reports:  &reportStoreStub{},
		presence: &presenceStub{online: map[int64]bool{}},
	}
	f.svc = NewService(Dependencies{
		Matches:  f.matches,
		Blocks:   f.blocks,
		Reports:  f.reports,
		Presence: f.presence,
	})
	f.svc.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return fn(ctx, nil)
	}
	f.svc.now = func() time.Time {
		return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return f
}

func TestListMapsSummaries(t *testing.T) {
	f := newFixture()
	lastAt := time.Date(2026, 6, 14, 9, 0, 0, 0, time.UTC)
	f.matches.summaries = []pgrepo.MatchSummaryRecord{
		{
			Match:           model.Match{ID: 7, User1ID: 1, User2ID: 2, CreatedAt: lastAt.Add(-time.Hour), LastMessageAt: &lastAt},
			OtherUserID:     2,
			DisplayName:     "Maya",
			Birthdate:       time.Date(1998, 3, 2, 0, 0, 0, 0, time.UTC),
			PhotoURL:        "https://cdn/maya.jpg",
			LastMessageText: "see you there",
			LastSenderID:    1,
			UnreadCount:     0,
		},
		{
			Match:           model.Match{ID: 8, User1ID: 1, User2ID: 3, CreatedAt: lastAt},
			OtherUserID:     3,
			DisplayName:     "Noor",
			Birthdate:       time.Date(2000, 12, 25, 0, 0, 0, 0, time.UTC),
			LastMessageText: "hey!",
			LastSenderID:    3,
			UnreadCount:     2,
		},
	}
	f.presence.online[2] = true

	got, err := f.svc.List(context.Background(), 1, 50)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}

	first := got[0]
	if first.MatchID != 7 || first.OtherUserID != 2 || first.DisplayName != "Maya" {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if first.Age != 28 {
		t.Fatalf("expected age 28, got %d", first.Age)
	}
	if !first.LastMessageMine {
		t.Fatal("last message was sent by the viewer")
	}
	if !first.IsOnline {
		t.Fatal("other user should read as online")
	}
	if first.LastMessageAt == nil || !first.LastMessageAt.Equal(lastAt) {
		t.Fatalf("unexpected last message time: %v", first.LastMessageAt)
	}

	second := got[1]
	if second.LastMessageMine {
		t.Fatal("last message was sent by the other side")
	}
	if second.UnreadCount != 2 || second.IsOnline {
		t.Fatalf("unexpected second row: %+v", second)
	}
}

func TestListPresenceFailureDegradesToOffline(t *testing.T) {
	f := newFixture()
	f.matches.summaries = []pgrepo.MatchSummaryRecord{
		{Match: model.Match{ID: 7, User1ID: 1, User2ID: 2}, OtherUserID: 2, Birthdate: time.Date(1998, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	f.presence.err = errors.New("redis down")

	got, err := f.svc.List(context.Background(), 1, 50)
	if err != nil {
		t.Fatalf("list should survive presence failure: %v", err)
	}
	if got[0].IsOnline {
		t.Fatal("presence failure should read as offline")
	}
}

func TestUnmatchByMember(t *testing.T) {
	f := newFixture()
	f.matches.byID[7] = model.Match{ID: 7, User1ID: 1, User2ID: 2}

	if err := f.svc.Unmatch(context.Background(), 2, 7); err != nil {
		t.Fatalf("unmatch: %v", err)
	}
	if _, ok := f.matches.byID[7]; ok {
		t.Fatal("match should be deleted")
	}
}

func TestUnmatchByOutsiderReadsAsNotFound(t *testing.T) {
	f := newFixture()
	f.matches.byID[7] = model.Match{ID: 7, User1ID: 1, User2ID: 2}

	if err := f.svc.Unmatch(context.Background(), 3, 7); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("expected ErrMatchNotFound, got %v", err)
	}
	if _, ok := f.matches.byID[7]; !ok {
		t.Fatal("match must survive an outsider's unmatch attempt")
	}

	if err := f.svc.Unmatch(context.Background(), 1, 99); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("expected ErrMatchNotFound for unknown id, got %v", err)
	}
}

func TestBlockRemovesMatch(t *testing.T) {
	f := newFixture()
	f.matches.byID[7] = model.Match{ID: 7, User1ID: 1, User2ID: 2}

	if err := f.svc.Block(context.Background(), 2, 1); err != nil {
		t.Fatalf("block: %v", err)
	}
	if _, ok := f.blocks.blocks[canonical(1, 2)]; !ok {
		t.Fatal("block should be recorded")
	}
	if _, ok := f.matches.byID[7]; ok {
		t.Fatal("blocking must remove the match")
	}
}

func TestBlockWithoutMatch(t *testing.T) {
	f := newFixture()
	if err := f.svc.Block(context.Background(), 1, 5); err != nil {
		t.Fatalf("block without a match should succeed: %v", err)
	}
	if _, ok := f.blocks.blocks[canonical(1, 5)]; !ok {
		t.Fatal("block should be recorded")
	}
}

func TestUnblockDoesNotRestoreMatch(t *testing.T) {
	f := newFixture()
	f.matches.byID[7] = model.Match{ID: 7, User1ID: 1, User2ID: 2}
	if err := f.svc.Block(context.Background(), 1, 2); err != nil {
		t.Fatalf("block: %v", err)
	}

	removed, err := f.svc.Unblock(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unblock: %v", err)
	}
	if !removed {
		t.Fatal("unblock should report the removed block")
	}
	if len(f.matches.byID) != 0 {
		t.Fatal("unblocking must not bring the match back")
	}

	removed, err = f.svc.Unblock(context.Background(), 1, 2)
	if err != nil || removed {
		t.Fatalf("second unblock should be a no-op, got removed=%v err=%v", removed, err)
	}
}

func TestReport(t *testing.T) {
	f := newFixture()

	rep, err := f.svc.Report(context.Background(), 1, 2, "SPAM", "sends crypto links")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if rep.Reason != enums.ReportReasonSpam || rep.Status != enums.ReportStatusOpen {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if rep.ReporterID != 1 || rep.ReportedID != 2 || rep.Notes != "sends crypto links" {
		t.Fatalf("unexpected report: %+v", rep)
	}

	if _, err := f.svc.Report(context.Background(), 1, 2, "because", ""); !errors.Is(err, ErrInvalidReportReason) {
		t.Fatalf("expected ErrInvalidReportReason, got %v", err)
	}
	if _, err := f.svc.Report(context.Background(), 1, 1, "spam", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for self report, got %v", err)
	}
}
