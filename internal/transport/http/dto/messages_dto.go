package dto

type SendMessageRequest struct {
	Text     string `json:"text"`
	ImageURL string `json:"image_url"`
}

type TypingRequest struct {
	Active bool `json:"active"`
}

type ReportRequest struct {
	TargetUserID int64  `json:"target_user_id"`
	Reason       string `json:"reason"`
	Notes        string `json:"notes"`
}

type BlockRequest struct {
	TargetUserID int64 `json:"target_user_id"`
}
