package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/Anayo007/linkup/internal/services/auth"
	messagessvc "github.com/Anayo007/linkup/internal/services/messages"
	"github.com/Anayo007/linkup/internal/transport/http/dto"
)

type MessagesHandler struct {
	service *messagessvc.Service
}

func NewMessagesHandler(service *messagessvc.Service) *MessagesHandler {
	return &MessagesHandler{service: service}
}

func (h *MessagesHandler) Send(w http.ResponseWriter, r *http.Request) {
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

	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	msg, err := h.service.Send(r.Context(), identity.UserID, matchID, req.Text, req.ImageURL)
	if err != nil {
		switch {
		case errors.Is(err, messagessvc.ErrMatchNotFound):
			writeNotFound(w, "MATCH_NOT_FOUND", "match not found")
		case errors.Is(err, messagessvc.ErrBlocked):
			writeNotFound(w, "CONVERSATION_UNAVAILABLE", "conversation unavailable")
		case errors.Is(err, messagessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid message")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to send message")
		}
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
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

	items, err := h.service.List(r.Context(), identity.UserID, matchID, queryInt(r, "limit", "50"))
	if err != nil {
		if errors.Is(err, messagessvc.ErrMatchNotFound) {
			writeNotFound(w, "MATCH_NOT_FOUND", "match not found")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load messages")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *MessagesHandler) Typing(w http.ResponseWriter, r *http.Request) {
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

	var req dto.TypingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if err := h.service.Typing(r.Context(), identity.UserID, matchID, req.Active); err != nil {
		if errors.Is(err, messagessvc.ErrMatchNotFound) {
			writeNotFound(w, "MATCH_NOT_FOUND", "match not found")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to relay typing state")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MessagesHandler) ChannelAuth(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	if err := r.ParseForm(); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	socketID := r.PostFormValue("socket_id")
	channel := r.PostFormValue("channel_name")
	if socketID == "" || channel == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "socket_id and channel_name are required")
		return
	}

	auth, err := h.service.AuthorizeChannel(r.Context(), identity.UserID, socketID, channel)
	if err != nil {
		switch {
		case errors.Is(err, messagessvc.ErrForbidden), errors.Is(err, messagessvc.ErrMatchNotFound):
			writeForbidden(w, "CHANNEL_FORBIDDEN", "not allowed to join this channel")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to authorize channel")
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(auth)
}
