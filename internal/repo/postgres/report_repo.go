package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Anayo007/linkup/internal/domain/enums"
	"github.com/Anayo007/linkup/internal/domain/model"
)

var ErrReportNotFound = errors.New("report not found")

type ReportRepo struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

func (r *ReportRepo) Create(ctx context.Context, rep model.Report, now time.Time) (model.Report, error) {
	if rep.ReporterID <= 0 || rep.ReportedID <= 0 {
		return model.Report{}, fmt.Errorf("invalid report payload")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO reports (
	reporter_id,
	reported_id,
	reason,
	notes,
	status,
	created_at
) VALUES ($1, $2, $3, $4, 'open', $5)
RETURNING id, created_at
`, rep.ReporterID, rep.ReportedID, string(rep.Reason), rep.Notes, now.UTC()).Scan(&rep.ID, &rep.CreatedAt)
	if err != nil {
		return model.Report{}, fmt.Errorf("create report: %w", err)
	}
	rep.Status = enums.ReportStatusOpen

	return rep, nil
}

func scanReport(row pgx.Row) (model.Report, error) {
	var rep model.Report
	var reason, status string
	err := row.Scan(
		&rep.ID,
		&rep.ReporterID,
		&rep.ReportedID,
		&reason,
		&rep.Notes,
		&status,
		&rep.AdminNotes,
		&rep.ReviewedAt,
		&rep.CreatedAt,
	)
	if err != nil {
		return model.Report{}, err
	}
	rep.Reason = enums.ReportReason(reason)
	rep.Status = enums.ReportStatus(status)
	return rep, nil
}

const reportColumns = `
	id,
	reporter_id,
	reported_id,
	reason,
	COALESCE(notes, ''),
	status,
	COALESCE(admin_notes, ''),
	reviewed_at,
	created_at
`

// GetForUpdate loads the report row-locked so a review transition reads a
// stable source state.
func (r *ReportRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, reportID int64) (model.Report, error) {
	if reportID <= 0 {
		return model.Report{}, fmt.Errorf("invalid report id")
	}
	if tx == nil {
		return model.Report{}, fmt.Errorf("transaction is required")
	}

	rep, err := scanReport(tx.QueryRow(ctx, `
SELECT`+reportColumns+`
FROM reports
WHERE id = $1
LIMIT 1
FOR UPDATE
`, reportID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Report{}, ErrReportNotFound
		}
		return model.Report{}, fmt.Errorf("get report: %w", err)
	}

	return rep, nil
}

func (r *ReportRepo) SetStatus(ctx context.Context, tx pgx.Tx, reportID int64, status enums.ReportStatus, adminNotes string, reviewedAt time.Time) error {
	if reportID <= 0 {
		return fmt.Errorf("invalid report id")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	result, err := tx.Exec(ctx, `
UPDATE reports
SET
	status = $2,
	admin_notes = $3,
	reviewed_at = $4
WHERE id = $1
`, reportID, string(status), adminNotes, reviewedAt.UTC())
	if err != nil {
		return fmt.Errorf("set report status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrReportNotFound
	}

	return nil
}

type ReportQueueRecord struct {
	model.Report
	ReporterEmail string
	ReporterName  string
	ReportedEmail string
	ReportedName  string
}

func (r *ReportRepo) List(ctx context.Context, status string, limit, offset int) ([]ReportQueueRecord, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	status = strings.ToLower(strings.TrimSpace(status))

	var total int
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM reports
WHERE $1 = '' OR status = $1
`, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	rep.id,
	rep.reporter_id,
	rep.reported_id,
	rep.reason,
	COALESCE(rep.notes, ''),
	rep.status,
	COALESCE(rep.admin_notes, ''),
	rep.reviewed_at,
	rep.created_at,
	COALESCE(ur.email, ''),
	COALESCE(pr.display_name, ''),
	COALESCE(ud.email, ''),
	COALESCE(pd.display_name, '')
FROM reports rep
LEFT JOIN users ur ON ur.id = rep.reporter_id
LEFT JOIN profiles pr ON pr.user_id = rep.reporter_id
LEFT JOIN users ud ON ud.id = rep.reported_id
LEFT JOIN profiles pd ON pd.user_id = rep.reported_id
WHERE $1 = '' OR rep.status = $1
ORDER BY rep.created_at DESC, rep.id DESC
LIMIT $2 OFFSET $3
`, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	items := make([]ReportQueueRecord, 0, limit)
	for rows.Next() {
		var rec ReportQueueRecord
		var reason, st string
		if err := rows.Scan(
			&rec.ID,
			&rec.ReporterID,
			&rec.ReportedID,
			&reason,
			&rec.Notes,
			&st,
			&rec.AdminNotes,
			&rec.ReviewedAt,
			&rec.CreatedAt,
			&rec.ReporterEmail,
			&rec.ReporterName,
			&rec.ReportedEmail,
			&rec.ReportedName,
		); err != nil {
			return nil, 0, fmt.Errorf("scan report: %w", err)
		}
		rec.Reason = enums.ReportReason(reason)
		rec.Status = enums.ReportStatus(st)
		items = append(items, rec)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("iterate reports: %w", rows.Err())
	}

	return items, total, nil
}
