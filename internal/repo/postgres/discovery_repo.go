package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Anayo007/linkup/internal/domain/enums"
)

var ErrViewerNotFound = errors.New("viewer profile not found")

type DiscoveryRepo struct {
	pool *pgxpool.Pool
}

func NewDiscoveryRepo(pool *pgxpool.Pool) *DiscoveryRepo {
	return &DiscoveryRepo{pool: pool}
}

type ViewerContext struct {
	UserID             int64
	Gender             enums.Gender
	InterestedIn       enums.GenderPreference
	PrefAgeMin         int
	PrefAgeMax         int
	PrefDistanceKM     int
	Lat                *float64
	Lon                *float64
	OnboardingComplete bool
}

func (r *DiscoveryRepo) GetViewerContext(ctx context.Context, userID int64) (ViewerContext, error) {
	if userID <= 0 {
		return ViewerContext{}, fmt.Errorf("invalid user id")
	}

	var v ViewerContext
	var gender, interestedIn string
	err := r.pool.QueryRow(ctx, `
SELECT
	user_id,
	gender,
	interested_in,
	pref_age_min,
	pref_age_max,
	pref_distance_km,
	lat,
	lon,
	onboarding_complete
FROM profiles
WHERE user_id = $1
LIMIT 1
`, userID).Scan(
		&v.UserID,
		&gender,
		&interestedIn,
		&v.PrefAgeMin,
		&v.PrefAgeMax,
		&v.PrefDistanceKM,
		&v.Lat,
		&v.Lon,
		&v.OnboardingComplete,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ViewerContext{}, ErrViewerNotFound
		}
		return ViewerContext{}, fmt.Errorf("get viewer context: %w", err)
	}
	v.Gender = enums.Gender(gender)
	v.InterestedIn = enums.GenderPreference(interestedIn)

	return v, nil
}

type CandidateQuery struct {
	ViewerID int64
	// Gender filter is disabled when GenderFilter is empty (preference
	// "everyone").
	GenderFilter enums.Gender
	// Inclusive birthdate bounds derived from the viewer's age window.
	BirthdateMin time.Time
	BirthdateMax time.Time
	// Distance filter applies only when the viewer has coordinates;
	// candidates without coordinates always pass.
	ViewerLat     *float64
	ViewerLon     *float64
	MaxDistanceKM float64
	Limit         int
}

type CandidateRecord struct {
	UserID      int64
	DisplayName string
	Birthdate   time.Time
	Gender      enums.Gender
	Bio         string
	JobTitle    string
	Education   string
	City        string
	DistanceKM  *float64
	CreatedAt   time.Time
}

// ListCandidates runs the whole selection in one query: eligibility flags,
// the exclusion set (likes, skips, blocks both directions, matches), the
// gender filter, the birthdate window, and the haversine distance cutoff.
// Order is created_at DESC, user_id DESC so identical inputs page
// identically.
func (r *DiscoveryRepo) ListCandidates(ctx context.Context, q CandidateQuery) ([]CandidateRecord, error) {
	if q.ViewerID <= 0 {
		return nil, fmt.Errorf("invalid viewer id")
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}

	applyGender := q.GenderFilter != ""
	applyRadius := q.ViewerLat != nil && q.ViewerLon != nil && q.MaxDistanceKM > 0

	rows, err := r.pool.Query(ctx, `
SELECT
	p.user_id,
	p.display_name,
	p.birthdate,
	p.gender,
	COALESCE(p.bio, ''),
	COALESCE(p.job_title, ''),
	COALESCE(p.education, ''),
	COALESCE(p.city, ''),
	CASE
		WHEN $7::boolean = TRUE AND p.lat IS NOT NULL AND p.lon IS NOT NULL
		THEN 6371.0 * ACOS(LEAST(1.0, GREATEST(-1.0,
			COS(RADIANS($8::float8)) * COS(RADIANS(p.lat)) * COS(RADIANS(p.lon) - RADIANS($9::float8))
			+ SIN(RADIANS($8::float8)) * SIN(RADIANS(p.lat))
		)))
		ELSE NULL
	END AS distance_km,
	p.created_at
FROM profiles p
JOIN users u ON u.id = p.user_id
WHERE
	p.user_id <> $1
	AND p.onboarding_complete = TRUE
	AND p.is_hidden = FALSE
	AND p.is_paused = FALSE
	AND u.is_banned = FALSE
	AND (u.suspended_until IS NULL OR u.suspended_until <= NOW())
	AND ($4::boolean = FALSE OR p.gender = $5)
	AND p.birthdate BETWEEN $2 AND $3
	AND NOT EXISTS (
		SELECT 1 FROM likes l
		WHERE l.from_user_id = $1 AND l.to_user_id = p.user_id
	)
	AND NOT EXISTS (
		SELECT 1 FROM skips s
		WHERE s.skipper_id = $1 AND s.skipped_id = p.user_id
	)
	AND NOT EXISTS (
		SELECT 1 FROM blocks b
		WHERE (b.blocker_id = $1 AND b.blocked_id = p.user_id)
			OR (b.blocker_id = p.user_id AND b.blocked_id = $1)
	)
	AND NOT EXISTS (
		SELECT 1 FROM matches m
		WHERE m.user1_id = LEAST($1, p.user_id)
			AND m.user2_id = GREATEST($1, p.user_id)
	)
	AND (
		$7::boolean = FALSE
		OR p.lat IS NULL
		OR p.lon IS NULL
		OR 6371.0 * ACOS(LEAST(1.0, GREATEST(-1.0,
			COS(RADIANS($8::float8)) * COS(RADIANS(p.lat)) * COS(RADIANS(p.lon) - RADIANS($9::float8))
			+ SIN(RADIANS($8::float8)) * SIN(RADIANS(p.lat))
		))) <= $10::float8
	)
ORDER BY p.created_at DESC, p.user_id DESC
LIMIT $6
`,
		q.ViewerID,               // $1
		q.BirthdateMin,           // $2
		q.BirthdateMax,           // $3
		applyGender,              // $4
		string(q.GenderFilter),   // $5
		q.Limit,                  // $6
		applyRadius,              // $7
		floatOrZero(q.ViewerLat), // $8
		floatOrZero(q.ViewerLon), // $9
		q.MaxDistanceKM,          // $10
	)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	items := make([]CandidateRecord, 0, q.Limit)
	for rows.Next() {
		var rec CandidateRecord
		var gender string
		if err := rows.Scan(
			&rec.UserID,
			&rec.DisplayName,
			&rec.Birthdate,
			&gender,
			&rec.Bio,
			&rec.JobTitle,
			&rec.Education,
			&rec.City,
			&rec.DistanceKM,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		rec.Gender = enums.Gender(gender)
		items = append(items, rec)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate candidates: %w", rows.Err())
	}

	return items, nil
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
