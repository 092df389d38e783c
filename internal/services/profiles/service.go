package profiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Anayo007/linkup/internal/domain/enums"
	"github.com/Anayo007/linkup/internal/domain/model"
	"github.com/Anayo007/linkup/internal/domain/rules"
	"github.com/Anayo007/linkup/internal/infra/s3"
	pgrepo "github.com/Anayo007/linkup/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrProfileNotFound = errors.New("profile not found")
	ErrUnderage        = errors.New("must be at least 18")
	ErrPhotoTooLarge   = errors.New("photo too large")
	ErrBadPhotoType    = errors.New("unsupported photo type")
)

const (
	maxPhotos        = 6
	maxPromptAnswers = 3
	maxBioLength     = 500
	maxNameLength    = 50
	maxPhotoBytes    = 10 << 20
	photoURLTTL      = 15 * time.Minute
)

type ProfileStore interface {
	Get(ctx context.Context, userID int64) (model.Profile, error)
	Upsert(ctx context.Context, tx pgx.Tx, p model.Profile, now time.Time) error
	Patch(ctx context.Context, userID int64, patch pgrepo.ProfilePatch, now time.Time) error
}

type PhotoStore interface {
	ReplaceAll(ctx context.Context, tx pgx.Tx, userID int64, photos []model.Photo) error
	ListByUser(ctx context.Context, userID int64) ([]model.Photo, error)
}

type PromptStore interface {
	ReplaceAnswers(ctx context.Context, tx pgx.Tx, userID int64, answers []model.PromptAnswer) error
	AnswersByUsers(ctx context.Context, userIDs []int64) (map[int64][]model.PromptAnswer, error)
}

// PhotoStorage is the object store behind photo uploads.
type PhotoStorage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// View is the owner's full profile with attachments.
type View struct {
	model.Profile
	Photos  []model.Photo        `json:"photos"`
	Prompts []model.PromptAnswer `json:"prompts"`
}

// SaveInput is the full onboarding/edit payload. Photos and prompt answers
// replace whatever was stored before.
type SaveInput struct {
	DisplayName    string
	Birthdate      time.Time
	Gender         string
	InterestedIn   string
	Bio            string
	JobTitle       string
	Company        string
	Education      string
	HeightCM       int
	Religion       string
	Drinking       string
	Smoking        string
	City           string
	Lat            *float64
	Lon            *float64
	PrefAgeMin     int
	PrefAgeMax     int
	PrefDistanceKM int
	Photos         []PhotoInput
	Prompts        []PromptAnswerInput
}

type PhotoInput struct {
	URL       string
	ObjectKey string
}

type PromptAnswerInput struct {
	PromptID int64
	Answer   string
}

// PatchInput updates the settings-screen fields only; nil leaves a field
// as it is.
type PatchInput struct {
	IsHidden       *bool
	IsPaused       *bool
	PrefAgeMin     *int
	PrefAgeMax     *int
	PrefDistanceKM *int
	InterestedIn   *string
}

type PhotoUpload struct {
	ObjectKey string `json:"object_key"`
	URL       string `json:"url"`
}

type Service struct {
	runTx    func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	profiles ProfileStore
	photos   PhotoStore
	prompts  PromptStore
	storage  PhotoStorage
	log      *zap.Logger
	now      func() time.Time
}

type Dependencies struct {
	Pool     *pgxpool.Pool
	Profiles ProfileStore
	Photos   PhotoStore
	Prompts  PromptStore
	Storage  PhotoStorage
	Log      *zap.Logger
}

func NewService(deps Dependencies) *Service {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	pool := deps.Pool
	return &Service{
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, pool, fn)
		},
		profiles: deps.Profiles,
		photos:   deps.Photos,
		prompts:  deps.Prompts,
		storage:  deps.Storage,
		log:      log,
		now:      time.Now,
	}
}

// Get returns the caller's own profile with photos and prompt answers.
func (s *Service) Get(ctx context.Context, userID int64) (View, error) {
	if userID <= 0 {
		return View{}, ErrValidation
	}

	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return View{}, ErrProfileNotFound
		}
		return View{}, fmt.Errorf("get profile: %w", err)
	}
	p.Age = rules.Age(p.Birthdate, s.now().UTC())

	photos, err := s.photos.ListByUser(ctx, userID)
	if err != nil {
		return View{}, fmt.Errorf("list photos: %w", err)
	}
	answers, err := s.prompts.AnswersByUsers(ctx, []int64{userID})
	if err != nil {
		return View{}, fmt.Errorf("list prompt answers: %w", err)
	}

	view := View{Profile: p, Photos: photos, Prompts: answers[userID]}
	if view.Photos == nil {
		view.Photos = []model.Photo{}
	}
	if view.Prompts == nil {
		view.Prompts = []model.PromptAnswer{}
	}
	return view, nil
}

// Save writes the full profile. Photos and prompt answers are replaced
// wholesale with positions re-indexed from zero, and a successful save
// marks onboarding complete. All of it commits together.
func (s *Service) Save(ctx context.Context, userID int64, in SaveInput) (View, error) {
	if userID <= 0 {
		return View{}, ErrValidation
	}

	now := s.now().UTC()
	p, err := s.buildProfile(userID, in, now)
	if err != nil {
		return View{}, err
	}

	photos := make([]model.Photo, 0, len(in.Photos))
	for i, ph := range in.Photos {
		if ph.URL == "" && ph.ObjectKey == "" {
			return View{}, ErrValidation
		}
		photos = append(photos, model.Photo{
			UserID:    userID,
			URL:       ph.URL,
			ObjectKey: ph.ObjectKey,
			Position:  i,
		})
	}

	answers := make([]model.PromptAnswer, 0, len(in.Prompts))
	seen := map[int64]bool{}
	for i, a := range in.Prompts {
		answer := strings.TrimSpace(a.Answer)
		if a.PromptID <= 0 || answer == "" || seen[a.PromptID] {
			return View{}, ErrValidation
		}
		seen[a.PromptID] = true
		answers = append(answers, model.PromptAnswer{
			UserID:   userID,
			PromptID: a.PromptID,
			Answer:   answer,
			Position: i,
		})
	}

	err = s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if err := s.profiles.Upsert(txCtx, tx, p, now); err != nil {
			return fmt.Errorf("upsert profile: %w", err)
		}
		if err := s.photos.ReplaceAll(txCtx, tx, userID, photos); err != nil {
			return fmt.Errorf("replace photos: %w", err)
		}
		if err := s.prompts.ReplaceAnswers(txCtx, tx, userID, answers); err != nil {
			return fmt.Errorf("replace prompt answers: %w", err)
		}
		return nil
	})
	if err != nil {
		return View{}, err
	}

	return s.Get(ctx, userID)
}

func (s *Service) buildProfile(userID int64, in SaveInput, now time.Time) (model.Profile, error) {
	name := strings.TrimSpace(in.DisplayName)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return model.Profile{}, ErrValidation
	}
	if in.Birthdate.IsZero() {
		return model.Profile{}, ErrValidation
	}
	if rules.Age(in.Birthdate, now) < rules.MinSignupAge {
		return model.Profile{}, ErrUnderage
	}
	gender, ok := enums.ParseGender(in.Gender)
	if !ok {
		return model.Profile{}, ErrValidation
	}
	interested, ok := enums.ParseGenderPreference(in.InterestedIn)
	if !ok {
		return model.Profile{}, ErrValidation
	}
	if utf8.RuneCountInString(in.Bio) > maxBioLength {
		return model.Profile{}, ErrValidation
	}
	if len(in.Photos) > maxPhotos || len(in.Prompts) > maxPromptAnswers {
		return model.Profile{}, ErrValidation
	}
	if (in.Lat == nil) != (in.Lon == nil) {
		return model.Profile{}, ErrValidation
	}

	ageMin, ageMax := in.PrefAgeMin, in.PrefAgeMax
	if ageMin <= 0 {
		ageMin = rules.MinSignupAge
	}
	if ageMax <= 0 {
		ageMax = 50
	}
	if ageMin < rules.MinSignupAge || ageMax < ageMin {
		return model.Profile{}, ErrValidation
	}
	distance := in.PrefDistanceKM
	if distance <= 0 {
		distance = 50
	}

	return model.Profile{
		UserID:             userID,
		DisplayName:        name,
		Birthdate:          in.Birthdate,
		Gender:             gender,
		InterestedIn:       interested,
		Bio:                strings.TrimSpace(in.Bio),
		JobTitle:           in.JobTitle,
		Company:            in.Company,
		Education:          in.Education,
		HeightCM:           in.HeightCM,
		Religion:           in.Religion,
		Drinking:           in.Drinking,
		Smoking:            in.Smoking,
		City:               in.City,
		Lat:                in.Lat,
		Lon:                in.Lon,
		PrefAgeMin:         ageMin,
		PrefAgeMax:         ageMax,
		PrefDistanceKM:     distance,
		OnboardingComplete: true,
	}, nil
}

// Patch updates the settings-screen fields without touching the rest of
// the profile.
func (s *Service) Patch(ctx context.Context, userID int64, in PatchInput) error {
	if userID <= 0 {
		return ErrValidation
	}
	if in.PrefAgeMin != nil && *in.PrefAgeMin < rules.MinSignupAge {
		return ErrValidation
	}
	if in.PrefAgeMax != nil && in.PrefAgeMin != nil && *in.PrefAgeMax < *in.PrefAgeMin {
		return ErrValidation
	}
	if in.PrefDistanceKM != nil && *in.PrefDistanceKM <= 0 {
		return ErrValidation
	}

	patch := pgrepo.ProfilePatch{
		IsHidden:       in.IsHidden,
		IsPaused:       in.IsPaused,
		PrefAgeMin:     in.PrefAgeMin,
		PrefAgeMax:     in.PrefAgeMax,
		PrefDistanceKM: in.PrefDistanceKM,
	}
	if in.InterestedIn != nil {
		pref, ok := enums.ParseGenderPreference(*in.InterestedIn)
		if !ok {
			return ErrValidation
		}
		patch.PrefGender = &pref
	}

	if err := s.profiles.Patch(ctx, userID, patch, s.now().UTC()); err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("patch profile: %w", err)
	}
	return nil
}

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// UploadPhoto stores the image under a fresh object key and returns the
// key with a short-lived download URL. The key goes into the profile on
// the next Save.
func (s *Service) UploadPhoto(ctx context.Context, userID int64, filename, contentType string, size int64, body io.Reader) (PhotoUpload, error) {
	if userID <= 0 || size <= 0 {
		return PhotoUpload{}, ErrValidation
	}
	if size > maxPhotoBytes {
		return PhotoUpload{}, ErrPhotoTooLarge
	}
	if !allowedPhotoTypes[contentType] {
		return PhotoUpload{}, ErrBadPhotoType
	}

	key := s3.PhotoKey(userID, filename)
	if err := s.storage.Put(ctx, key, body, size, contentType); err != nil {
		return PhotoUpload{}, fmt.Errorf("store photo: %w", err)
	}

	url, err := s.storage.PresignGet(ctx, key, photoURLTTL)
	if err != nil {
		return PhotoUpload{}, fmt.Errorf("presign photo: %w", err)
	}
	return PhotoUpload{ObjectKey: key, URL: url}, nil
}
