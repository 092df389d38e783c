package dto

import "time"

type SaveProfileRequest struct {
	DisplayName    string               `json:"display_name"`
	Birthdate      time.Time            `json:"birthdate"`
	Gender         string               `json:"gender"`
	InterestedIn   string               `json:"interested_in"`
	Bio            string               `json:"bio"`
	JobTitle       string               `json:"job_title"`
	Company        string               `json:"company"`
	Education      string               `json:"education"`
	HeightCM       int                  `json:"height_cm"`
	Religion       string               `json:"religion"`
	Drinking       string               `json:"drinking"`
	Smoking        string               `json:"smoking"`
	City           string               `json:"city"`
	Lat            *float64             `json:"lat"`
	Lon            *float64             `json:"lon"`
	PrefAgeMin     int                  `json:"pref_age_min"`
	PrefAgeMax     int                  `json:"pref_age_max"`
	PrefDistanceKM int                  `json:"pref_distance_km"`
	Photos         []ProfilePhoto       `json:"photos"`
	Prompts        []ProfilePromptReply `json:"prompts"`
}

type ProfilePhoto struct {
	URL       string `json:"url"`
	ObjectKey string `json:"object_key"`
}

type ProfilePromptReply struct {
	PromptID int64  `json:"prompt_id"`
	Answer   string `json:"answer"`
}

type PatchProfileRequest struct {
	IsHidden       *bool   `json:"is_hidden"`
	IsPaused       *bool   `json:"is_paused"`
	PrefAgeMin     *int    `json:"pref_age_min"`
	PrefAgeMax     *int    `json:"pref_age_max"`
	PrefDistanceKM *int    `json:"pref_distance_km"`
	InterestedIn   *string `json:"interested_in"`
}
