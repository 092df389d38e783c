package model

import (
	"time"

	"github.com/Anayo007/linkup/internal/domain/enums"
)

type Profile struct {
	UserID             int64                  `json:"user_id"`
	DisplayName        string                 `json:"display_name"`
	Birthdate          time.Time              `json:"birthdate"`
	Age                int                    `json:"age"`
	Gender             enums.Gender           `json:"gender"`
	InterestedIn       enums.GenderPreference `json:"interested_in"`
	Bio                string                 `json:"bio"`
	JobTitle           string                 `json:"job_title"`
	Company            string                 `json:"company"`
	Education          string                 `json:"education"`
	HeightCM           int                    `json:"height_cm"`
	Religion           string                 `json:"religion"`
	Drinking           string                 `json:"drinking"`
	Smoking            string                 `json:"smoking"`
	City               string                 `json:"city"`
	Lat                *float64               `json:"lat,omitempty"`
	Lon                *float64               `json:"lon,omitempty"`
	PrefAgeMin         int                    `json:"pref_age_min"`
	PrefAgeMax         int                    `json:"pref_age_max"`
	PrefDistanceKM     int                    `json:"pref_distance_km"`
	IsHidden           bool                   `json:"is_hidden"`
	IsPaused           bool                   `json:"is_paused"`
	OnboardingComplete bool                   `json:"onboarding_complete"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

type Photo struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	URL       string `json:"url"`
	ObjectKey string `json:"-"`
	Position  int    `json:"position"`
}
