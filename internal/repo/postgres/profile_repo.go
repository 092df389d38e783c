package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Anayo007/linkup/internal/domain/enums"
	"github.com/Anayo007/linkup/internal/domain/model"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

const profileColumns = `
	user_id,
	display_name,
	birthdate,
	gender,
	interested_in,
	COALESCE(bio, ''),
	COALESCE(job_title, ''),
	COALESCE(company, ''),
	COALESCE(education, ''),
	COALESCE(height_cm, 0),
	COALESCE(religion, ''),
	COALESCE(drinking, ''),
	COALESCE(smoking, ''),
	COALESCE(city, ''),
	lat,
	lon,
	pref_age_min,
	pref_age_max,
	pref_distance_km,
	is_hidden,
	is_paused,
	onboarding_complete,
	created_at,
	updated_at
`

func scanProfile(row pgx.Row) (model.Profile, error) {
	var p model.Profile
	var gender, interestedIn string
	err := row.Scan(
		&p.UserID,
		&p.DisplayName,
		&p.Birthdate,
		&gender,
		&interestedIn,
		&p.Bio,
		&p.JobTitle,
		&p.Company,
		&p.Education,
		&p.HeightCM,
		&p.Religion,
		&p.Drinking,
		&p.Smoking,
		&p.City,
		&p.Lat,
		&p.Lon,
		&p.PrefAgeMin,
		&p.PrefAgeMax,
		&p.PrefDistanceKM,
		&p.IsHidden,
		&p.IsPaused,
		&p.OnboardingComplete,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return model.Profile{}, err
	}
	p.Gender = enums.Gender(gender)
	p.InterestedIn = enums.GenderPreference(interestedIn)
	return p, nil
}

func (r *ProfileRepo) Get(ctx context.Context, userID int64) (model.Profile, error) {
	if userID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid user id")
	}

	p, err := scanProfile(r.pool.QueryRow(ctx, `
SELECT`+profileColumns+`
FROM profiles
WHERE user_id = $1
LIMIT 1
`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	return p, nil
}

func (r *ProfileRepo) GetMany(ctx context.Context, userIDs []int64) (map[int64]model.Profile, error) {
	out := make(map[int64]model.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT`+profileColumns+`
FROM profiles
WHERE user_id = ANY($1)
`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("get profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out[p.UserID] = p
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate profiles: %w", rows.Err())
	}

	return out, nil
}

// Upsert writes the full profile row. Tx is required because photos and
// prompt answers are replaced in the same transaction on save.
func (r *ProfileRepo) Upsert(ctx context.Context, tx pgx.Tx, p model.Profile, now time.Time) error {
	if p.UserID <= 0 {
		return fmt.Errorf("invalid profile payload")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO profiles (
	user_id, display_name, birthdate, gender, interested_in,
	bio, job_title, company, education, height_cm,
	religion, drinking, smoking, city, lat, lon,
	pref_age_min, pref_age_max, pref_distance_km,
	is_hidden, is_paused, onboarding_complete,
	created_at, updated_at
) VALUES (
	$1, $2, $3, $4, $5,
	$6, $7, $8, $9, $10,
	$11, $12, $13, $14, $15, $16,
	$17, $18, $19,
	$20, $21, $22,
	$23, $23
)
ON CONFLICT (user_id) DO UPDATE SET
	display_name = EXCLUDED.display_name,
	birthdate = EXCLUDED.birthdate,
	gender = EXCLUDED.gender,
	interested_in = EXCLUDED.interested_in,
	bio = EXCLUDED.bio,
	job_title = EXCLUDED.job_title,
	company = EXCLUDED.company,
	education = EXCLUDED.education,
	height_cm = EXCLUDED.height_cm,
	religion = EXCLUDED.religion,
	drinking = EXCLUDED.drinking,
	smoking = EXCLUDED.smoking,
	city = EXCLUDED.city,
	lat = EXCLUDED.lat,
	lon = EXCLUDED.lon,
	pref_age_min = EXCLUDED.pref_age_min,
	pref_age_max = EXCLUDED.pref_age_max,
	pref_distance_km = EXCLUDED.pref_distance_km,
	is_hidden = EXCLUDED.is_hidden,
	is_paused = EXCLUDED.is_paused,
	onboarding_complete = EXCLUDED.onboarding_complete,
	updated_at = EXCLUDED.updated_at
`,
		p.UserID, p.DisplayName, p.Birthdate, string(p.Gender), string(p.InterestedIn),
		p.Bio, p.JobTitle, p.Company, p.Education, p.HeightCM,
		p.Religion, p.Drinking, p.Smoking, p.City, p.Lat, p.Lon,
		p.PrefAgeMin, p.PrefAgeMax, p.PrefDistanceKM,
		p.IsHidden, p.IsPaused, p.OnboardingComplete,
		now.UTC(),
	); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	return nil
}

type ProfilePatch struct {
	IsHidden       *bool
	IsPaused       *bool
	PrefAgeMin     *int
	PrefAgeMax     *int
	PrefDistanceKM *int
	PrefGender     *enums.GenderPreference
}

func (r *ProfileRepo) Patch(ctx context.Context, userID int64, patch ProfilePatch, now time.Time) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	var prefGender *string
	if patch.PrefGender != nil {
		s := string(*patch.PrefGender)
		prefGender = &s
	}

	result, err := r.pool.Exec(ctx, `
UPDATE profiles
SET
	is_hidden = COALESCE($2, is_hidden),
	is_paused = COALESCE($3, is_paused),
	pref_age_min = COALESCE($4, pref_age_min),
	pref_age_max = COALESCE($5, pref_age_max),
	pref_distance_km = COALESCE($6, pref_distance_km),
	interested_in = COALESCE($7, interested_in),
	updated_at = $8
WHERE user_id = $1
`, userID,
		patch.IsHidden,
		patch.IsPaused,
		patch.PrefAgeMin,
		patch.PrefAgeMax,
		patch.PrefDistanceKM,
		prefGender,
		now.UTC(),
	)
	if err != nil {
		return fmt.Errorf("patch profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}
