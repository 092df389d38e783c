package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/Anayo007/linkup/internal/domain/model"
	pgrepo "github.com/Anayo007/linkup/internal/repo/postgres"
	authsvc "github.com/Anayo007/linkup/internal/services/auth"
	matchessvc "github.com/Anayo007/linkup/internal/services/matches"
)

func authedRequest(method, target string, body []byte, identity authsvc.Identity) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(authsvc.WithIdentity(req.Context(), identity))
}

func withURLParam(req *http.Request, name, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

type matchStoreStub struct {
	match   model.Match
	deleted []int64
}

func (s *matchStoreStub) GetByID(_ context.Context, matchID int64) (model.Match, error) {
	if matchID != s.match.ID {
		return model.Match{}, pgrepo.ErrMatchNotFound
	}
	return s.match, nil
}

func (s *matchStoreStub) ListForUser(context.Context, int64, int) ([]pgrepo.MatchSummaryRecord, error) {
	return nil, nil
}

func (s *matchStoreStub) DeleteByID(_ context.Context, matchID int64) error {
	s.deleted = append(s.deleted, matchID)
	return nil
}

func (s *matchStoreStub) DeleteByUsers(context.Context, pgx.Tx, int64, int64) (bool, error) {
	return false, nil
}

type reportStoreStub struct {
	created []model.Report
}

func (s *reportStoreStub) Create(_ context.Context, rep model.Report, now time.Time) (model.Report, error) {
	rep.ID = int64(len(s.created) + 1)
	rep.CreatedAt = now
	s.created = append(s.created, rep)
	return rep, nil
}

func TestUnmatchByOutsiderReturnsNotFound(t *testing.T) {
	store := &matchStoreStub{match: model.Match{ID: 7, User1ID: 1, User2ID: 2}}
	svc := matchessvc.NewService(matchessvc.Dependencies{Matches: store})
	h := NewMatchesHandler(svc)

	req := authedRequest(http.MethodDelete, "/matches/7", nil, authsvc.Identity{UserID: 99})
	req = withURLParam(req, "id", "7")

	rr := httptest.NewRecorder()
	h.Unmatch(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNotFound)
	}
	if len(store.deleted) != 0 {
		t.Fatalf("match deleted by non-member")
	}
}

func TestUnmatchByMemberDeletes(t *testing.T) {
	store := &matchStoreStub{match: model.Match{ID: 7, User1ID: 1, User2ID: 2}}
	svc := matchessvc.NewService(matchessvc.Dependencies{Matches: store})
	h := NewMatchesHandler(svc)

	req := authedRequest(http.MethodDelete, "/matches/7", nil, authsvc.Identity{UserID: 2})
	req = withURLParam(req, "id", "7")

	rr := httptest.NewRecorder()
	h.Unmatch(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
	if len(store.deleted) != 1 || store.deleted[0] != 7 {
		t.Fatalf("unexpected deletions: %v", store.deleted)
	}
}

func TestReportRejectsUnknownReason(t *testing.T) {
	reports := &reportStoreStub{}
	svc := matchessvc.NewService(matchessvc.Dependencies{Reports: reports})
	h := NewMatchesHandler(svc)

	body, _ := json.Marshal(map[string]any{
		"target_user_id": 2,
		"reason":         "ugly-avatar",
	})
	req := authedRequest(http.MethodPost, "/reports", body, authsvc.Identity{UserID: 1})

	rr := httptest.NewRecorder()
	h.Report(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "INVALID_REASON" {
		t.Fatalf("unexpected error code: got %q want %q", payload.Code, "INVALID_REASON")
	}
	if len(reports.created) != 0 {
		t.Fatalf("report created despite invalid reason")
	}
}

func TestReportCreated(t *testing.T) {
	reports := &reportStoreStub{}
	svc := matchessvc.NewService(matchessvc.Dependencies{Reports: reports})
	h := NewMatchesHandler(svc)

	body, _ := json.Marshal(map[string]any{
		"target_user_id": 2,
		"reason":         "spam",
		"notes":          "link farm in bio",
	})
	req := authedRequest(http.MethodPost, "/reports", body, authsvc.Identity{UserID: 1})

	rr := httptest.NewRecorder()
	h.Report(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusCreated)
	}
	if len(reports.created) != 1 {
		t.Fatalf("expected one report, got %d", len(reports.created))
	}
}

func TestListRequiresAuth(t *testing.T) {
	svc := matchessvc.NewService(matchessvc.Dependencies{Matches: &matchStoreStub{}})
	h := NewMatchesHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/matches", nil)
	rr := httptest.NewRecorder()
	h.List(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}
