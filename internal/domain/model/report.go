package model

import (
	"time"

	"github.com/Anayo007/linkup/internal/domain/enums"
)

type Report struct {
	ID         int64              `json:"id"`
	ReporterID int64              `json:"reporter_id"`
	ReportedID int64              `json:"reported_id"`
	Reason     enums.ReportReason `json:"reason"`
	Notes      string             `json:"notes,omitempty"`
	Status     enums.ReportStatus `json:"status"`
	AdminNotes string             `json:"admin_notes,omitempty"`
	ReviewedAt *time.Time         `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}
