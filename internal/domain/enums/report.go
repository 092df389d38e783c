package enums

import "strings"

type ReportReason string

const (
	ReportReasonInappropriate ReportReason = "inappropriate_content"
	ReportReasonFake          ReportReason = "fake_profile"
	ReportReasonHarassment    ReportReason = "harassment"
	ReportReasonSpam          ReportReason = "spam"
	ReportReasonUnderage      ReportReason = "underage"
	ReportReasonOther         ReportReason = "other"
)

func ParseReportReason(raw string) (ReportReason, bool) {
	switch ReportReason(strings.ToLower(strings.TrimSpace(raw))) {
	case ReportReasonInappropriate:
		return ReportReasonInappropriate, true
	case ReportReasonFake:
		return ReportReasonFake, true
	case ReportReasonHarassment:
		return ReportReasonHarassment, true
	case ReportReasonSpam:
		return ReportReasonSpam, true
	case ReportReasonUnderage:
		return ReportReasonUnderage, true
	case ReportReasonOther:
		return ReportReasonOther, true
	default:
		return "", false
	}
}

type ReportStatus string

const (
	ReportStatusOpen      ReportStatus = "open"
	ReportStatusReviewed  ReportStatus = "reviewed"
	ReportStatusWarned    ReportStatus = "warned"
	ReportStatusSuspended ReportStatus = "suspended"
	ReportStatusBanned    ReportStatus = "banned"
)

func ParseReportStatus(raw string) (ReportStatus, bool) {
	switch ReportStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case ReportStatusOpen:
		return ReportStatusOpen, true
	case ReportStatusReviewed:
		return ReportStatusReviewed, true
	case ReportStatusWarned:
		return ReportStatusWarned, true
	case ReportStatusSuspended:
		return ReportStatusSuspended, true
	case ReportStatusBanned:
		return ReportStatusBanned, true
	default:
		return "", false
	}
}

// Terminal reports never transition again; only open reports accept a review.
func (s ReportStatus) Terminal() bool {
	return s != ReportStatusOpen
}
