package model

type Prompt struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category"`
	IsActive bool   `json:"is_active"`
}

type PromptAnswer struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	PromptID   int64  `json:"prompt_id"`
	PromptText string `json:"prompt_text"`
	Answer     string `json:"answer"`
	Position   int    `json:"position"`
}
