package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/Anayo007/linkup/internal/services/auth"
	discoverysvc "github.com/Anayo007/linkup/internal/services/discovery"
)

type DiscoveryHandler struct {
	service *discoverysvc.Service
}

func NewDiscoveryHandler(service *discoverysvc.Service) *DiscoveryHandler {
	return &DiscoveryHandler{service: service}
}

func (h *DiscoveryHandler) Browse(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	limit := queryInt(r, "limit", "0")
	candidates, err := h.service.Browse(r.Context(), identity.UserID, limit)
	if err != nil {
		switch {
		case errors.Is(err, discoverysvc.ErrProfileIncomplete):
			writePreconditionFailed(w, "PROFILE_INCOMPLETE", "complete your profile to browse")
		case errors.Is(err, discoverysvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid browse request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load candidates")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": candidates})
}
