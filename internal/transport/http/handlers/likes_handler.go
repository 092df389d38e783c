package handlers

import (
	"errors"
	"net/http"

	"github.com/Anayo007/linkup/internal/domain/enums"
	authsvc "github.com/Anayo007/linkup/internal/services/auth"
	likessvc "github.com/Anayo007/linkup/internal/services/likes"
	skipssvc "github.com/Anayo007/linkup/internal/services/skips"
	"github.com/Anayo007/linkup/internal/transport/http/dto"
)

type LikesHandler struct {
	likes *likessvc.Service
	skips *skipssvc.Service
}

func NewLikesHandler(likes *likessvc.Service, skips *skipssvc.Service) *LikesHandler {
	return &LikesHandler{likes: likes, skips: skips}
}

func (h *LikesHandler) Like(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.LikeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	result, err := h.likes.Like(r.Context(), identity.UserID, likessvc.LikeInput{
		TargetUserID:   req.TargetUserID,
		TargetKind:     enums.LikeTarget(req.TargetKind),
		PhotoID:        req.PhotoID,
		PromptAnswerID: req.PromptAnswerID,
		Comment:        req.Comment,
	})
	if err != nil {
		var quota likessvc.QuotaExceededError
		switch {
		case errors.As(err, &quota):
			writeQuotaExceeded(w, "daily like limit reached", quota.Limit, quota.Tier)
		case errors.Is(err, likessvc.ErrAlreadyLiked):
			writeConflict(w, "ALREADY_LIKED", "you already liked this profile")
		case errors.Is(err, likessvc.ErrBlocked):
			writeNotFound(w, "PROFILE_UNAVAILABLE", "profile unavailable")
		case errors.Is(err, likessvc.ErrSelfLike), errors.Is(err, likessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid like request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to send like")
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.LikeResponse{
		MatchCreated:    result.MatchCreated,
		MatchID:         result.MatchID,
		MatchedName:     result.MatchedName,
		MatchedPhotoURL: result.MatchedPhotoURL,
		LikesRemaining:  result.LikesRemaining,
	})
}

func (h *LikesHandler) Incoming(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	items, err := h.likes.Incoming(r.Context(), identity.UserID, queryInt(r, "limit", "50"))
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load incoming likes")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *LikesHandler) Remaining(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	remaining, err := h.likes.Remaining(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load quota")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"likes_remaining": remaining})
}

func (h *LikesHandler) Skip(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.SkipRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if err := h.skips.Skip(r.Context(), identity.UserID, req.TargetUserID); err != nil {
		if errors.Is(err, skipssvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid skip request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to record skip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LikesHandler) Undo(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	result, err := h.skips.Undo(r.Context(), identity.UserID)
	if err != nil {
		var quota skipssvc.QuotaExceededError
		switch {
		case errors.As(err, &quota):
			writeQuotaExceeded(w, "daily undo limit reached", quota.Limit, quota.Tier)
		case errors.Is(err, skipssvc.ErrUndoNotAllowed):
			writeForbidden(w, "UNDO_NOT_ALLOWED", "undo is not available on your tier")
		case errors.Is(err, skipssvc.ErrNothingToUndo):
			writePreconditionFailed(w, "NOTHING_TO_UNDO", "no skips to undo")
		case errors.Is(err, skipssvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid undo request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to undo skip")
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.UndoResponse{
		RestoredUserID: result.RestoredUserID,
		UndosRemaining: result.UndosRemaining,
	})
}
