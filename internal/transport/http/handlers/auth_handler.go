package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/Anayo007/linkup/internal/services/auth"
	"github.com/Anayo007/linkup/internal/transport/http/dto"
)

type AuthHandler struct {
	service *authsvc.Service
}

func NewAuthHandler(service *authsvc.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	result, err := h.service.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrInvalidInput):
			writeBadRequest(w, "VALIDATION_ERROR", "email and a password of at least 8 characters are required")
		case errors.Is(err, authsvc.ErrEmailTaken):
			writeConflict(w, "EMAIL_TAKEN", "email already registered")
		case errors.Is(err, authsvc.ErrSignupsDisabled):
			writeForbidden(w, "SIGNUPS_DISABLED", "signups are currently disabled")
		default:
			writeInternal(w, "INTERNAL_ERROR", "signup failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, authResponse(result))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrInvalidInput), errors.Is(err, authsvc.ErrInvalidCredentials):
			writeUnauthorized(w, "INVALID_CREDENTIALS", "invalid email or password")
		case errors.Is(err, authsvc.ErrAccountBanned):
			writeForbidden(w, "ACCOUNT_BANNED", "account is banned")
		case errors.Is(err, authsvc.ErrAccountSuspended):
			writeForbidden(w, "ACCOUNT_SUSPENDED", "account is suspended")
		default:
			writeInternal(w, "INTERNAL_ERROR", "login failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, authResponse(result))
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	me, err := h.service.CurrentUser(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, authsvc.ErrUnauthorized) {
			writeUnauthorized(w, "UNAUTHORIZED", "account no longer exists")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load account")
		return
	}

	writeJSON(w, http.StatusOK, meResponse(me))
}

func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	if err := h.service.DeleteAccount(r.Context(), identity.UserID); err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to delete account")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func authResponse(result authsvc.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		AccessToken: result.AccessToken,
		User:        meResponse(result.Me),
	}
}

func meResponse(me authsvc.Me) dto.MeResponse {
	return dto.MeResponse{
		ID:      me.ID,
		Email:   me.Email,
		IsAdmin: me.IsAdmin,
		Tier:    me.Tier,
	}
}
