package profiles

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Anayo007/linkup/internal/domain/model"
	pgrepo "github.com/Anayo007/linkup/internal/repo/postgres"
)

type profileStoreStub struct {
	byUser map[int64]model.Profile
}

func (s *profileStoreStub) Get(_ context.Context, userID int64) (model.Profile, error) {
	p, ok := s.byUser[userID]
	if !ok {
		return model.Profile{}, pgrepo.ErrProfileNotFound
	}
	return p, nil
}

func (s *profileStoreStub) Upsert(_ context.Context, _ pgx.Tx, p model.Profile, now time.Time) error {
	p.UpdatedAt = now
	s.byUser[p.UserID] = p
	return nil
}

func (s *profileStoreStub) Patch(_ context.Context, userID int64, patch pgrepo.ProfilePatch, now time.Time) error {
	p, ok := s.byUser[userID]
	if !ok {
		return pgrepo.ErrProfileNotFound
	}
	if patch.IsHidden != nil {
		p.IsHidden = *patch.IsHidden
	}
	if patch.IsPaused != nil {
		p.IsPaused = *patch.IsPaused
	}
	if patch.PrefAgeMin != nil {
		p.PrefAgeMin = *patch.PrefAgeMin
	}
	if patch.PrefAgeMax != nil {
		p.PrefAgeMax = *patch.PrefAgeMax
	}
	if patch.PrefDistanceKM != nil {
		p.PrefDistanceKM = *patch.PrefDistanceKM
	}
	if patch.PrefGender != nil {
		p.InterestedIn = *patch.PrefGender
	}
	p.UpdatedAt = now
	s.byUser[userID] = p
	return nil
}

type photoStoreStub struct {
	byUser map[int64][]model.Photo
}

func (s *photoStoreStub) ReplaceAll(_ context.Context, _ pgx.Tx, userID int64, photos []model.Photo) error {
	s.byUser[userID] = photos
	return nil
}

func (s *photoStoreStub) ListByUser(_ context.Context, userID int64) ([]model.Photo, error) {
	return s.byUser[userID], nil
}

type promptStoreStub struct {
	byUser map[int64][]model.PromptAnswer
}

func (s *promptStoreStub) ReplaceAnswers(_ context.Context, _ pgx.Tx, userID int64, answers []model.PromptAnswer) error {
	s.byUser[userID] = answers
	return nil
}

func (s *promptStoreStub) AnswersByUsers(_ context.Context, ids []int64) (map[int64][]model.PromptAnswer, error) {
	out := map[int64][]model.PromptAnswer{}
	for _, id := range ids {
		if a, ok := s.byUser[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

type storageStub struct {
	objects map[string][]byte
}

func (s *storageStub) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *storageStub) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://s3.test/" + key, nil
}

type fixture struct {
	svc      *Service
	profiles *profileStoreStub
	photos   *photoStoreStub
	prompts  *promptStoreStub
	storage  *storageStub
}

var saveNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		profiles: &profileStoreStub{byUser: map[int64]model.Profile{}},
		photos:   &photoStoreStub{byUser: map[int64][]model.Photo{}},
		prompts:  &promptStoreStub{byUser: map[int64][]model.PromptAnswer{}},
		storage:  &storageStub{objects: map[string][]byte{}},
	}
	f.svc = NewService(Dependencies{
		Profiles: f.profiles,
		Photos:   f.photos,
		Prompts:  f.prompts,
		Storage:  f.storage,
	})
	f.svc.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return fn(ctx, nil)
	}
	f.svc.now = func() time.Time { return saveNow }
	return f
}

func validInput() SaveInput {
	return SaveInput{
		DisplayName:  "Riley",
		Birthdate:    time.Date(1998, 3, 2, 0, 0, 0, 0, time.UTC),
		Gender:       "woman",
		InterestedIn: "men",
		Bio:          "coffee and climbing",
		Photos: []PhotoInput{
			{URL: "https://cdn/a.jpg"},
			{URL: "https://cdn/b.jpg"},
		},
		Prompts: []PromptAnswerInput{
			{PromptID: 3, Answer: "a lighthouse keeper"},
		},
	}
}

func TestSaveCompletesOnboarding(t *testing.T) {
	f := newFixture()

	view, err := f.svc.Save(context.Background(), 1, validInput())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !view.OnboardingComplete {
		t.Fatal("full save should complete onboarding")
	}
	if view.Age != 28 {
		t.Fatalf("expected age 28, got %d", view.Age)
	}
	if view.PrefAgeMin != 18 || view.PrefAgeMax != 50 || view.PrefDistanceKM != 50 {
		t.Fatalf("defaults not applied: %+v", view.Profile)
	}
	if len(view.Photos) != 2 || view.Photos[0].Position != 0 || view.Photos[1].Position != 1 {
		t.Fatalf("photos should be re-indexed from zero, got %+v", view.Photos)
	}
	if len(view.Prompts) != 1 || view.Prompts[0].Position != 0 {
		t.Fatalf("prompt answers should be re-indexed, got %+v", view.Prompts)
	}
}

func TestSaveReplacesAttachmentsWholesale(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Save(context.Background(), 1, validInput()); err != nil {
		t.Fatalf("first save: %v", err)
	}

	in := validInput()
	in.Photos = []PhotoInput{{URL: "https://cdn/new.jpg"}}
	in.Prompts = nil

	view, err := f.svc.Save(context.Background(), 1, in)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if len(view.Photos) != 1 || view.Photos[0].URL != "https://cdn/new.jpg" {
		t.Fatalf("photos should be replaced, got %+v", view.Photos)
	}
	if len(view.Prompts) != 0 {
		t.Fatalf("prompt answers should be cleared, got %+v", view.Prompts)
	}
}

func TestSaveRejectsMinors(t *testing.T) {
	f := newFixture()

	in := validInput()
	in.Birthdate = time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := f.svc.Save(context.Background(), 1, in); !errors.Is(err, ErrUnderage) {
		t.Fatalf("expected ErrUnderage, got %v", err)
	}

	// 18 exactly today is allowed.
	in.Birthdate = time.Date(2008, 6, 15, 0, 0, 0, 0, time.UTC)
	if _, err := f.svc.Save(context.Background(), 1, in); err != nil {
		t.Fatalf("18th birthday save: %v", err)
	}
}

func TestSaveValidation(t *testing.T) {
	f := newFixture()

	cases := []struct {
		name   string
		mutate func(*SaveInput)
	}{
		{"empty name", func(in *SaveInput) { in.DisplayName = "  " }},
		{"zero birthdate", func(in *SaveInput) { in.Birthdate = time.Time{} }},
		{"bad gender", func(in *SaveInput) { in.Gender = "unknown" }},
		{"bad preference", func(in *SaveInput) { in.InterestedIn = "anyone" }},
		{"oversized bio", func(in *SaveInput) { in.Bio = strings.Repeat("x", maxBioLength+1) }},
		{"too many photos", func(in *SaveInput) {
			in.Photos = make([]PhotoInput, maxPhotos+1)
			for i := range in.Photos {
				in.Photos[i] = PhotoInput{URL: "https://cdn/x.jpg"}
			}
		}},
		{"duplicate prompt", func(in *SaveInput) {
			in.Prompts = []PromptAnswerInput{{PromptID: 3, Answer: "a"}, {PromptID: 3, Answer: "b"}}
		}},
		{"lat without lon", func(in *SaveInput) { v := 10.0; in.Lat = &v }},
		{"inverted age prefs", func(in *SaveInput) { in.PrefAgeMin = 30; in.PrefAgeMax = 25 }},
	}
	for _, tc := range cases {
		in := validInput()
		tc.mutate(&in)
		if _, err := f.svc.Save(context.Background(), 1, in); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}

func TestPatchSettingsFields(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Save(context.Background(), 1, validInput()); err != nil {
		t.Fatalf("save: %v", err)
	}

	hidden := true
	ageMin, ageMax := 21, 30
	pref := "everyone"
	err := f.svc.Patch(context.Background(), 1, PatchInput{
		IsHidden:     &hidden,
		PrefAgeMin:   &ageMin,
		PrefAgeMax:   &ageMax,
		InterestedIn: &pref,
	})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}

	view, err := f.svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !view.IsHidden || view.PrefAgeMin != 21 || view.PrefAgeMax != 30 || string(view.InterestedIn) != "everyone" {
		t.Fatalf("patch not applied: %+v", view.Profile)
	}
	// Untouched fields survive.
	if view.DisplayName != "Riley" || view.PrefDistanceKM != 50 {
		t.Fatalf("patch clobbered unrelated fields: %+v", view.Profile)
	}

	bad := 16
	if err := f.svc.Patch(context.Background(), 1, PatchInput{PrefAgeMin: &bad}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for underage pref, got %v", err)
	}
	if err := f.svc.Patch(context.Background(), 99, PatchInput{IsHidden: &hidden}); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestGetUnknownProfile(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Get(context.Background(), 42); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestUploadPhoto(t *testing.T) {
	f := newFixture()

	up, err := f.svc.UploadPhoto(context.Background(), 1, "selfie.jpg", "image/jpeg", 1024, bytes.NewReader(make([]byte, 1024)))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(up.ObjectKey, "photos/1/") || !strings.HasSuffix(up.ObjectKey, ".jpg") {
		t.Fatalf("unexpected object key %q", up.ObjectKey)
	}
	if up.URL != "https://s3.test/"+up.ObjectKey {
		t.Fatalf("unexpected url %q", up.URL)
	}
	if _, ok := f.storage.objects[up.ObjectKey]; !ok {
		t.Fatal("object should be stored")
	}

	if _, err := f.svc.UploadPhoto(context.Background(), 1, "clip.gif", "image/gif", 10, bytes.NewReader(nil)); !errors.Is(err, ErrBadPhotoType) {
		t.Fatalf("expected ErrBadPhotoType, got %v", err)
	}
	if _, err := f.svc.UploadPhoto(context.Background(), 1, "huge.jpg", "image/jpeg", maxPhotoBytes+1, bytes.NewReader(nil)); !errors.Is(err, ErrPhotoTooLarge) {
		t.Fatalf("expected ErrPhotoTooLarge, got %v", err)
	}
}
