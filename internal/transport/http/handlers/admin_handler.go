package handlers

import (
	"errors"
	"net/http"

	"github.com/Anayo007/linkup/internal/domain/model"
	authsvc "github.com/Anayo007/linkup/internal/services/auth"
	moderationsvc "github.com/Anayo007/linkup/internal/services/moderation"
	promptsvc "github.com/Anayo007/linkup/internal/services/prompts"
	settingssvc "github.com/Anayo007/linkup/internal/services/settings"
	userssvc "github.com/Anayo007/linkup/internal/services/users"
	"github.com/Anayo007/linkup/internal/transport/http/dto"
)

type AdminHandler struct {
	users      *userssvc.Service
	moderation *moderationsvc.Service
	settings   *settingssvc.Service
	prompts    *promptsvc.Service
}

func NewAdminHandler(users *userssvc.Service, moderation *moderationsvc.Service, settings *settingssvc.Service, prompts *promptsvc.Service) *AdminHandler {
	return &AdminHandler{
		users:      users,
		moderation: moderation,
		settings:   settings,
		prompts:    prompts,
	}
}

func (h *AdminHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.users.Search(r.Context(), r.URL.Query().Get("q"), r.URL.Query().Get("status"), queryInt(r, "page", "1"))
	if err != nil {
		if errors.Is(err, userssvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid search parameters")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to search users")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlParamID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	u, err := h.users.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, userssvc.ErrUserNotFound) {
			writeNotFound(w, "USER_NOT_FOUND", "user not found")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load user")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *AdminHandler) setBanned(w http.ResponseWriter, r *http.Request, banned bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	userID, ok := urlParamID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	if err := h.users.SetBanned(r.Context(), identity.UserID, userID, banned); err != nil {
		switch {
		case errors.Is(err, userssvc.ErrUserNotFound):
			writeNotFound(w, "USER_NOT_FOUND", "user not found")
		case errors.Is(err, userssvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to update ban state")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) BanUser(w http.ResponseWriter, r *http.Request) {
	h.setBanned(w, r, true)
}

func (h *AdminHandler) UnbanUser(w http.ResponseWriter, r *http.Request) {
	h.setBanned(w, r, false)
}

func (h *AdminHandler) setAdmin(w http.ResponseWriter, r *http.Request, isAdmin bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	userID, ok := urlParamID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	if err := h.users.SetAdmin(r.Context(), identity.UserID, userID, isAdmin); err != nil {
		switch {
		case errors.Is(err, userssvc.ErrLastAdmin):
			writeConflict(w, "SELF_DEMOTION", "admins cannot demote themselves")
		case errors.Is(err, userssvc.ErrUserNotFound):
			writeNotFound(w, "USER_NOT_FOUND", "user not found")
		case errors.Is(err, userssvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to update admin flag")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	h.setAdmin(w, r, true)
}

func (h *AdminHandler) RemoveAdmin(w http.ResponseWriter, r *http.Request) {
	h.setAdmin(w, r, false)
}

func (h *AdminHandler) SetUserTier(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	userID, ok := urlParamID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	var req dto.SetTierRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if err := h.users.SetTier(r.Context(), identity.UserID, userID, req.Tier); err != nil {
		switch {
		case errors.Is(err, userssvc.ErrUnknownTier):
			writeBadRequest(w, "UNKNOWN_TIER", "no such subscription tier")
		case errors.Is(err, userssvc.ErrUserNotFound):
			writeNotFound(w, "USER_NOT_FOUND", "user not found")
		case errors.Is(err, userssvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to change tier")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	userID, ok := urlParamID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	if err := h.users.Delete(r.Context(), identity.UserID, userID); err != nil {
		switch {
		case errors.Is(err, userssvc.ErrUserNotFound):
			writeNotFound(w, "USER_NOT_FOUND", "user not found")
		case errors.Is(err, userssvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to delete user")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ReportQueue(w http.ResponseWriter, r *http.Request) {
	q, err := h.moderation.Queue(r.Context(), r.URL.Query().Get("status"), queryInt(r, "limit", "50"), queryInt(r, "offset", "0"))
	if err != nil {
		if errors.Is(err, moderationsvc.ErrInvalidStatus) {
			writeBadRequest(w, "INVALID_STATUS", "unknown report status")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load report queue")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *AdminHandler) ReviewReport(w http.ResponseWriter, r *http.Request) {
	reportID, ok := urlParamID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid report id")
		return
	}

	var req dto.ReviewReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	rep, err := h.moderation.Review(r.Context(), reportID, req.Status, req.AdminNotes)
	if err != nil {
		switch {
		case errors.Is(err, moderationsvc.ErrReportNotFound):
			writeNotFound(w, "REPORT_NOT_FOUND", "report not found")
		case errors.Is(err, moderationsvc.ErrReportClosed):
			writeConflict(w, "REPORT_CLOSED", "report already resolved")
		case errors.Is(err, moderationsvc.ErrInvalidStatus):
			writeBadRequest(w, "INVALID_STATUS", "unknown review status")
		case errors.Is(err, moderationsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to review report")
		}
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Get(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req model.AppSettings
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	s, err := h.settings.Update(r.Context(), req)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to update settings")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *AdminHandler) ListTiers(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.settings.ListTiers(r.Context(), r.URL.Query().Get("include_inactive") == "true")
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load tiers")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": tiers})
}

func (h *AdminHandler) UpdateTier(w http.ResponseWriter, r *http.Request) {
	tierID, ok := urlParamID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid tier id")
		return
	}

	var req model.SubscriptionTier
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	req.ID = tierID

	t, err := h.settings.UpdateTier(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, settingssvc.ErrTierNotFound):
			writeNotFound(w, "TIER_NOT_FOUND", "tier not found")
		case errors.Is(err, settingssvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid tier configuration")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to update tier")
		}
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *AdminHandler) ListPrompts(w http.ResponseWriter, r *http.Request) {
	prompts, err := h.prompts.ListAll(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load prompts")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": prompts})
}

func (h *AdminHandler) CreatePrompt(w http.ResponseWriter, r *http.Request) {
	var req dto.PromptRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	p, err := h.prompts.Create(r.Context(), req.Text, req.Category)
	if err != nil {
		if errors.Is(err, promptsvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid prompt")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to create prompt")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *AdminHandler) UpdatePrompt(w http.ResponseWriter, r *http.Request) {
	promptID, ok := urlParamID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid prompt id")
		return
	}

	var req dto.PromptRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	p := model.Prompt{ID: promptID, Text: req.Text, Category: req.Category, IsActive: active}
	if err := h.prompts.Update(r.Context(), p); err != nil {
		switch {
		case errors.Is(err, promptsvc.ErrPromptNotFound):
			writeNotFound(w, "PROMPT_NOT_FOUND", "prompt not found")
		case errors.Is(err, promptsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid prompt")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to update prompt")
		}
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *AdminHandler) DeletePrompt(w http.ResponseWriter, r *http.Request) {
	promptID, ok := urlParamID(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid prompt id")
		return
	}

	if err := h.prompts.Delete(r.Context(), promptID); err != nil {
		switch {
		case errors.Is(err, promptsvc.ErrPromptNotFound):
			writeNotFound(w, "PROMPT_NOT_FOUND", "prompt not found")
		case errors.Is(err, promptsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid prompt id")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to delete prompt")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.settings.Overview(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load overview")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
