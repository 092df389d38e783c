package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Anayo007/linkup/internal/domain/enums"
	"github.com/Anayo007/linkup/internal/domain/model"
	"github.com/Anayo007/linkup/internal/domain/rules"
	pgrepo "github.com/Anayo007/linkup/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	// ErrProfileIncomplete distinguishes "cannot browse yet" from an
	// empty result set.
	ErrProfileIncomplete = errors.New("profile is not complete")
)

type CandidateStore interface {
	GetViewerContext(ctx context.Context, userID int64) (pgrepo.ViewerContext, error)
	ListCandidates(ctx context.Context, q pgrepo.CandidateQuery) ([]pgrepo.CandidateRecord, error)
}

type PhotoStore interface {
	ListByUsers(ctx context.Context, userIDs []int64) (map[int64][]model.Photo, error)
}

type PromptStore interface {
	AnswersByUsers(ctx context.Context, userIDs []int64) (map[int64][]model.PromptAnswer, error)
}

type Config struct {
	BatchSize         int
	MaxBatchSize      int
	DefaultAgeMin     int
	DefaultAgeMax     int
	DefaultDistanceKM int
	MaxDistanceKM     int
}

// Candidate is a fully assembled discovery card.
type Candidate struct {
	UserID      int64                `json:"user_id"`
	DisplayName string               `json:"display_name"`
	Age         int                  `json:"age"`
	Gender      enums.Gender         `json:"gender"`
	Bio         string               `json:"bio"`
	JobTitle    string               `json:"job_title"`
	Education   string               `json:"education"`
	City        string               `json:"city"`
	DistanceKM  *float64             `json:"distance_km,omitempty"`
	Photos      []model.Photo        `json:"photos"`
	Prompts     []model.PromptAnswer `json:"prompts"`
}

type Service struct {
	candidates CandidateStore
	photos     PhotoStore
	prompts    PromptStore
	cfg        Config
	now        func() time.Time
}

type Dependencies struct {
	Candidates CandidateStore
	Photos     PhotoStore
	Prompts    PromptStore
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 50
	}
	if cfg.DefaultAgeMin <= 0 {
		cfg.DefaultAgeMin = rules.MinSignupAge
	}
	if cfg.DefaultAgeMax <= 0 {
		cfg.DefaultAgeMax = 50
	}
	if cfg.DefaultDistanceKM <= 0 {
		cfg.DefaultDistanceKM = 50
	}
	if cfg.MaxDistanceKM <= 0 {
		cfg.MaxDistanceKM = 500
	}

	return &Service{
		candidates: deps.Candidates,
		photos:     deps.Photos,
		prompts:    deps.Prompts,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Browse selects, filters, and assembles the viewer's next batch of
// candidate cards. Selection runs in one storage query; assembly batches
// photo and prompt reads across the whole page.
func (s *Service) Browse(ctx context.Context, viewerID int64, limit int) ([]Candidate, error) {
	if viewerID <= 0 {
		return nil, ErrValidation
	}
	if limit <= 0 {
		limit = s.cfg.BatchSize
	}
	if limit > s.cfg.MaxBatchSize {
		limit = s.cfg.MaxBatchSize
	}

	viewer, err := s.candidates.GetViewerContext(ctx, viewerID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrViewerNotFound) {
			return nil, ErrProfileIncomplete
		}
		return nil, fmt.Errorf("get viewer context: %w", err)
	}
	if !viewer.OnboardingComplete {
		return nil, ErrProfileIncomplete
	}

	now := s.now().UTC()
	query := s.buildQuery(viewer, limit, now)

	records, err := s.candidates.ListCandidates(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	return s.assemble(ctx, records, now)
}

// buildQuery maps viewer preferences onto storage filters: the preference
// enum picks the gender filter (everyone disables it), the age window turns
// into inclusive birthdate bounds, and the distance cap applies only when
// the viewer has coordinates.
func (s *Service) buildQuery(viewer pgrepo.ViewerContext, limit int, now time.Time) pgrepo.CandidateQuery {
	ageMin, ageMax := viewer.PrefAgeMin, viewer.PrefAgeMax
	if ageMin <= 0 {
		ageMin = s.cfg.DefaultAgeMin
	}
	if ageMax <= 0 {
		ageMax = s.cfg.DefaultAgeMax
	}
	if ageMin < rules.MinSignupAge {
		ageMin = rules.MinSignupAge
	}
	if ageMax < ageMin {
		ageMax = ageMin
	}
	earliest, latest := rules.BirthdateWindow(ageMin, ageMax, now)

	distanceKM := viewer.PrefDistanceKM
	if distanceKM <= 0 {
		distanceKM = s.cfg.DefaultDistanceKM
	}
	if distanceKM > s.cfg.MaxDistanceKM {
		distanceKM = s.cfg.MaxDistanceKM
	}

	query := pgrepo.CandidateQuery{
		ViewerID:      viewer.UserID,
		BirthdateMin:  earliest,
		BirthdateMax:  latest,
		MaxDistanceKM: float64(distanceKM),
		Limit:         limit,
	}
	if gender, ok := enums.GenderForPreference(viewer.InterestedIn); ok {
		query.GenderFilter = gender
	}
	if viewer.Lat != nil && viewer.Lon != nil {
		query.ViewerLat = viewer.Lat
		query.ViewerLon = viewer.Lon
	}
	return query
}

func (s *Service) assemble(ctx context.Context, records []pgrepo.CandidateRecord, now time.Time) ([]Candidate, error) {
	candidates := make([]Candidate, 0, len(records))
	if len(records) == 0 {
		return candidates, nil
	}

	ids := make([]int64, len(records))
	for i, rec := range records {
		ids[i] = rec.UserID
	}

	photos := map[int64][]model.Photo{}
	if s.photos != nil {
		var err error
		photos, err = s.photos.ListByUsers(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load candidate photos: %w", err)
		}
	}

	prompts := map[int64][]model.PromptAnswer{}
	if s.prompts != nil {
		var err error
		prompts, err = s.prompts.AnswersByUsers(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load candidate prompts: %w", err)
		}
	}

	for _, rec := range records {
		c := Candidate{
			UserID:      rec.UserID,
			DisplayName: rec.DisplayName,
			Age:         rules.Age(rec.Birthdate, now),
			Gender:      rec.Gender,
			Bio:         rec.Bio,
			JobTitle:    rec.JobTitle,
			Education:   rec.Education,
			City:        rec.City,
			DistanceKM:  rec.DistanceKM,
			Photos:      photos[rec.UserID],
			Prompts:     prompts[rec.UserID],
		}
		if c.Photos == nil {
			c.Photos = []model.Photo{}
		}
		if c.Prompts == nil {
			c.Prompts = []model.PromptAnswer{}
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}
