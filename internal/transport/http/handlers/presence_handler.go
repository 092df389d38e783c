package handlers

import (
	"net/http"

	authsvc "github.com/Anayo007/linkup/internal/services/auth"
	presencesvc "github.com/Anayo007/linkup/internal/services/presence"
)

type PresenceHandler struct {
	service *presencesvc.Service
}

func NewPresenceHandler(service *presencesvc.Service) *PresenceHandler {
	return &PresenceHandler{service: service}
}

func (h *PresenceHandler) Ping(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	if err := h.service.Ping(r.Context(), identity.UserID); err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to record presence")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PresenceHandler) Status(w http.ResponseWriter, r *http.Request) {
	if _, ok := authsvc.IdentityFromContext(r.Context()); !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	userID, ok := urlParamID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	online, err := h.service.IsOnline(r.Context(), userID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to read presence")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"online": online})
}
