package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Anayo007/linkup/internal/domain/model"
)

type SettingsRepo struct {
	pool *pgxpool.Pool
}

func NewSettingsRepo(pool *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

// Get returns the singleton settings row, or defaults when it has not been
// written yet.
func (r *SettingsRepo) Get(ctx context.Context) (model.AppSettings, error) {
	var s model.AppSettings
	err := r.pool.QueryRow(ctx, `
SELECT maintenance_mode, COALESCE(maintenance_message, ''), signups_enabled
FROM app_settings
WHERE id = 1
LIMIT 1
`).Scan(&s.MaintenanceMode, &s.MaintenanceMessage, &s.SignupsEnabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.AppSettings{SignupsEnabled: true}, nil
		}
		return model.AppSettings{}, fmt.Errorf("get app settings: %w", err)
	}

	return s, nil
}

func (r *SettingsRepo) Upsert(ctx context.Context, s model.AppSettings) error {
	if _, err := r.pool.Exec(ctx, `
INSERT INTO app_settings (
	id,
	maintenance_mode,
	maintenance_message,
	signups_enabled,
	updated_at
) VALUES (1, $1, $2, $3, NOW())
ON CONFLICT (id) DO UPDATE SET
	maintenance_mode = EXCLUDED.maintenance_mode,
	maintenance_message = EXCLUDED.maintenance_message,
	signups_enabled = EXCLUDED.signups_enabled,
	updated_at = NOW()
`, s.MaintenanceMode, s.MaintenanceMessage, s.SignupsEnabled); err != nil {
		return fmt.Errorf("upsert app settings: %w", err)
	}

	return nil
}

type OverviewStats struct {
	Users       int
	Matches     int
	Messages    int
	OpenReports int
}

func (r *SettingsRepo) Overview(ctx context.Context) (OverviewStats, error) {
	var stats OverviewStats
	err := r.pool.QueryRow(ctx, `
SELECT
	(SELECT COUNT(*) FROM users),
	(SELECT COUNT(*) FROM matches),
	(SELECT COUNT(*) FROM messages),
	(SELECT COUNT(*) FROM reports WHERE status = 'open')
`).Scan(&stats.Users, &stats.Matches, &stats.Messages, &stats.OpenReports)
	if err != nil {
		return OverviewStats{}, fmt.Errorf("get overview stats: %w", err)
	}

	return stats, nil
}
