package presence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/Anayo007/linkup/internal/repo/redis"
)

type activityStub struct {
	touched map[int64]time.Time
	last    map[int64]time.Time
	err     error
}

func (s *activityStub) TouchLastActive(_ context.Context, userID int64, at time.Time) error {
	if s.err != nil {
		return s.err
	}
	s.touched[userID] = at
	return nil
}

func (s *activityStub) LastActive(_ context.Context, userID int64) (*time.Time, error) {
	at, ok := s.last[userID]
	if !ok {
		return nil, nil
	}
	return &at, nil
}

func newFixture(t *testing.T) (*Service, *miniredis.Miniredis, *activityStub) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	activity := &activityStub{touched: map[int64]time.Time{}, last: map[int64]time.Time{}}
	svc := NewService(Dependencies{
		Online:   redrepo.NewPresenceRepo(client),
		Activity: activity,
	}, Config{OnlineWindow: 2 * time.Minute})
	return svc, mr, activity
}

func TestPingMarksOnlineUntilWindowExpires(t *testing.T) {
	svc, mr, activity := newFixture(t)
	ctx := context.Background()

	if err := svc.Ping(ctx, 1); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if _, ok := activity.touched[1]; !ok {
		t.Fatal("ping should stamp durable last active")
	}

	online, err := svc.IsOnline(ctx, 1)
	if err != nil {
		t.Fatalf("is online: %v", err)
	}
	if !online {
		t.Fatal("user should be online right after a ping")
	}

	mr.FastForward(3 * time.Minute)

	online, err = svc.IsOnline(ctx, 1)
	if err != nil {
		t.Fatalf("is online after expiry: %v", err)
	}
	if online {
		t.Fatal("user should drop offline after the window")
	}
}

func TestPingSurvivesActivityStoreFailure(t *testing.T) {
	svc, _, activity := newFixture(t)
	activity.err = errors.New("pg down")

	if err := svc.Ping(context.Background(), 1); err != nil {
		t.Fatalf("ping should tolerate a durable store failure: %v", err)
	}
}

func TestIsOnlineFallsBackToLastActive(t *testing.T) {
	svc, mr, activity := newFixture(t)
	ctx := context.Background()

	mr.SetError("redis gone")
	activity.last[1] = time.Now().UTC().Add(-time.Minute)
	activity.last[2] = time.Now().UTC().Add(-time.Hour)

	online, err := svc.IsOnline(ctx, 1)
	if err != nil {
		t.Fatalf("is online: %v", err)
	}
	if !online {
		t.Fatal("recent last active should read as online")
	}

	online, err = svc.IsOnline(ctx, 2)
	if err != nil {
		t.Fatalf("is online: %v", err)
	}
	if online {
		t.Fatal("stale last active should read as offline")
	}

	online, err = svc.IsOnline(ctx, 3)
	if err != nil {
		t.Fatalf("is online: %v", err)
	}
	if online {
		t.Fatal("a user with no activity should read as offline")
	}
}

func TestOnlineSetDegradesToOffline(t *testing.T) {
	svc, mr, _ := newFixture(t)
	ctx := context.Background()

	if err := svc.Ping(ctx, 1); err != nil {
		t.Fatalf("ping: %v", err)
	}

	got := svc.OnlineSet(ctx, []int64{1, 2})
	if !got[1] || got[2] {
		t.Fatalf("expected only user 1 online, got %v", got)
	}

	mr.SetError("redis gone")
	got = svc.OnlineSet(ctx, []int64{1, 2})
	if len(got) != 0 {
		t.Fatalf("redis failure should degrade to empty, got %v", got)
	}
}
