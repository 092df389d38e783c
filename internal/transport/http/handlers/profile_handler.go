package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/Anayo007/linkup/internal/services/auth"
	profilesvc "github.com/Anayo007/linkup/internal/services/profiles"
	promptsvc "github.com/Anayo007/linkup/internal/services/prompts"
	"github.com/Anayo007/linkup/internal/transport/http/dto"
)

type ProfileHandler struct {
	profiles *profilesvc.Service
	prompts  *promptsvc.Service
}

func NewProfileHandler(profiles *profilesvc.Service, prompts *promptsvc.Service) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, prompts: prompts}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	view, err := h.profiles.Get(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, profilesvc.ErrProfileNotFound) {
			writeNotFound(w, "PROFILE_NOT_FOUND", "profile not created yet")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.SaveProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	in := profilesvc.SaveInput{
		DisplayName:    req.DisplayName,
		Birthdate:      req.Birthdate,
		Gender:         req.Gender,
		InterestedIn:   req.InterestedIn,
		Bio:            req.Bio,
		JobTitle:       req.JobTitle,
		Company:        req.Company,
		Education:      req.Education,
		HeightCM:       req.HeightCM,
		Religion:       req.Religion,
		Drinking:       req.Drinking,
		Smoking:        req.Smoking,
		City:           req.City,
		Lat:            req.Lat,
		Lon:            req.Lon,
		PrefAgeMin:     req.PrefAgeMin,
		PrefAgeMax:     req.PrefAgeMax,
		PrefDistanceKM: req.PrefDistanceKM,
	}
	for _, p := range req.Photos {
		in.Photos = append(in.Photos, profilesvc.PhotoInput{URL: p.URL, ObjectKey: p.ObjectKey})
	}
	for _, a := range req.Prompts {
		in.Prompts = append(in.Prompts, profilesvc.PromptAnswerInput{PromptID: a.PromptID, Answer: a.Answer})
	}

	view, err := h.profiles.Save(r.Context(), identity.UserID, in)
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrUnderage):
			writeBadRequest(w, "UNDERAGE", "must be at least 18")
		case errors.Is(err, profilesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "profile validation failed")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to save profile")
		}
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ProfileHandler) Patch(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.PatchProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	err := h.profiles.Patch(r.Context(), identity.UserID, profilesvc.PatchInput{
		IsHidden:       req.IsHidden,
		IsPaused:       req.IsPaused,
		PrefAgeMin:     req.PrefAgeMin,
		PrefAgeMax:     req.PrefAgeMax,
		PrefDistanceKM: req.PrefDistanceKM,
		InterestedIn:   req.InterestedIn,
	})
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrProfileNotFound):
			writeNotFound(w, "PROFILE_NOT_FOUND", "profile not created yet")
		case errors.Is(err, profilesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid settings")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to update settings")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadPhoto accepts a multipart form with a single "photo" part.
func (h *ProfileHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "photo file is required")
		return
	}
	defer func() { _ = file.Close() }()

	upload, err := h.profiles.UploadPhoto(
		r.Context(),
		identity.UserID,
		header.Filename,
		header.Header.Get("Content-Type"),
		header.Size,
		file,
	)
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrPhotoTooLarge):
			writeBadRequest(w, "PHOTO_TOO_LARGE", "photo exceeds the size limit")
		case errors.Is(err, profilesvc.ErrBadPhotoType):
			writeBadRequest(w, "UNSUPPORTED_PHOTO_TYPE", "only jpeg, png, and webp are accepted")
		case errors.Is(err, profilesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid photo upload")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to store photo")
		}
		return
	}
	writeJSON(w, http.StatusCreated, upload)
}

// Prompts lists the active prompt catalogue.
func (h *ProfileHandler) Prompts(w http.ResponseWriter, r *http.Request) {
	items, err := h.prompts.ListActive(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load prompts")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
