package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Anayo007/linkup/internal/domain/enums"
	"github.com/Anayo007/linkup/internal/domain/model"
	pgrepo "github.com/Anayo007/linkup/internal/repo/postgres"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrReportNotFound = errors.New("report not found")
	ErrReportClosed   = errors.New("report already resolved")
	ErrInvalidStatus  = errors.New("invalid review status")
)

// suspensionDuration is how long a "suspended" resolution locks the
// account, counted from the review.
const suspensionDuration = 7 * 24 * time.Hour

type ReportStore interface {
	GetForUpdate(ctx context.Context, tx pgx.Tx, reportID int64) (model.Report, error)
	SetStatus(ctx context.Context, tx pgx.Tx, reportID int64, status enums.ReportStatus, adminNotes string, reviewedAt time.Time) error
	List(ctx context.Context, status string, limit, offset int) ([]pgrepo.ReportQueueRecord, int, error)
}

type UserStore interface {
	SetBanned(ctx context.Context, tx pgx.Tx, userID int64, banned bool) error
	SetSuspendedUntil(ctx context.Context, tx pgx.Tx, userID int64, until *time.Time) error
}

type Queue struct {
	Items []pgrepo.ReportQueueRecord `json:"items"`
	Total int                        `json:"total"`
}

type Service struct {
	runTx   func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	reports ReportStore
	users   UserStore
	log     *zap.Logger
	now     func() time.Time
}

type Dependencies struct {
	Pool    *pgxpool.Pool
	Reports ReportStore
	Users   UserStore
	Log     *zap.Logger
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
		reports: deps.Reports,
		users:   deps.Users,
		log:     log,
		now:     time.Now,
	}
}

// Queue lists reports for the admin review screen, optionally filtered by
// status. Empty status means the whole queue.
func (s *Service) Queue(ctx context.Context, status string, limit, offset int) (Queue, error) {
	if status != "" {
		if _, ok := enums.ParseReportStatus(status); !ok {
			return Queue{}, ErrInvalidStatus
		}
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.reports.List(ctx, status, limit, offset)
	if err != nil {
		return Queue{}, fmt.Errorf("list reports: %w", err)
	}
	return Queue{Items: items, Total: total}, nil
}

// Review resolves an open report. The report moves from open to exactly
// one terminal status, and the side effect on the reported account commits
// in the same transaction:
//
//	reviewed   no action taken
//	warned     recorded on the report only
//	suspended  account locked for seven days
//	banned     account banned
//
// A report that already left the open state stays as it is.
func (s *Service) Review(ctx context.Context, reportID int64, status, adminNotes string) (model.Report, error) {
	if reportID <= 0 {
		return model.Report{}, ErrValidation
	}
	target, ok := enums.ParseReportStatus(status)
	if !ok || !target.Terminal() {
		return model.Report{}, ErrInvalidStatus
	}

	now := s.now().UTC()
	var reviewed model.Report
	err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		rep, err := s.reports.GetForUpdate(txCtx, tx, reportID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrReportNotFound) {
				return ErrReportNotFound
			}
			return fmt.Errorf("lock report: %w", err)
		}
		if rep.Status.Terminal() {
			return ErrReportClosed
		}

		switch target {
		case enums.ReportStatusSuspended:
			until := now.Add(suspensionDuration)
			if err := s.users.SetSuspendedUntil(txCtx, tx, rep.ReportedID, &until); err != nil {
				return fmt.Errorf("suspend user: %w", err)
			}
		case enums.ReportStatusBanned:
			if err := s.users.SetBanned(txCtx, tx, rep.ReportedID, true); err != nil {
				return fmt.Errorf("ban user: %w", err)
			}
		}

		if err := s.reports.SetStatus(txCtx, tx, reportID, target, adminNotes, now); err != nil {
			return fmt.Errorf("set report status: %w", err)
		}

		reviewed = rep
		reviewed.Status = target
		reviewed.AdminNotes = adminNotes
		reviewed.ReviewedAt = &now
		return nil
	})
	if err != nil {
		return model.Report{}, err
	}

	s.log.Info("report reviewed",
		zap.Int64("report_id", reviewed.ID),
		zap.Int64("reported_id", reviewed.ReportedID),
		zap.String("status", string(reviewed.Status)),
	)
	return reviewed, nil
}
