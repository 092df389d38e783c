package dto

type ReviewReportRequest struct {
	Status     string `json:"status"`
	AdminNotes string `json:"admin_notes"`
}

type SetTierRequest struct {
	Tier string `json:"tier"`
}

type PromptRequest struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	IsActive *bool  `json:"is_active"`
}
