package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/Anayo007/linkup/internal/services/auth"
	matchessvc "github.com/Anayo007/linkup/internal/services/matches"
	"github.com/Anayo007/linkup/internal/transport/http/dto"
)

type MatchesHandler struct {
	service *matchessvc.Service
}

func NewMatchesHandler(service *matchessvc.Service) *MatchesHandler {
	return &MatchesHandler{service: service}
}

func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	items, err := h.service.List(r.Context(), identity.UserID, queryInt(r, "limit", "100"))
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load matches")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *MatchesHandler) Unmatch(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	matchID, ok := urlParamID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid match id")
		return
	}

	if err := h.service.Unmatch(r.Context(), identity.UserID, matchID); err != nil {
		if errors.Is(err, matchessvc.ErrMatchNotFound) {
			writeNotFound(w, "MATCH_NOT_FOUND", "match not found")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to unmatch")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MatchesHandler) Block(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.BlockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if err := h.service.Block(r.Context(), identity.UserID, req.TargetUserID); err != nil {
		if errors.Is(err, matchessvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid block request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to block user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MatchesHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	targetID, ok := urlParamID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	removed, err := h.service.Unblock(r.Context(), identity.UserID, targetID)
	if err != nil {
		if errors.Is(err, matchessvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid unblock request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to unblock user")
		return
	}
	if !removed {
		writeNotFound(w, "BLOCK_NOT_FOUND", "no block to remove")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MatchesHandler) Report(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.ReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	rep, err := h.service.Report(r.Context(), identity.UserID, req.TargetUserID, req.Reason, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, matchessvc.ErrInvalidReportReason):
			writeBadRequest(w, "INVALID_REASON", "unknown report reason")
		case errors.Is(err, matchessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid report request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to file report")
		}
		return
	}
	writeJSON(w, http.StatusCreated, rep)
}
