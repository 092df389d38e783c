package dto

type LikeRequest struct {
	TargetUserID   int64  `json:"target_user_id"`
	TargetKind     string `json:"target_kind"`
	PhotoID        *int64 `json:"photo_id"`
	PromptAnswerID *int64 `json:"prompt_answer_id"`
	Comment        string `json:"comment"`
}

type LikeResponse struct {
	MatchCreated    bool   `json:"match_created"`
	MatchID         int64  `json:"match_id,omitempty"`
	MatchedName     string `json:"matched_name,omitempty"`
	MatchedPhotoURL string `json:"matched_photo_url,omitempty"`
	LikesRemaining  int    `json:"likes_remaining"`
}

type SkipRequest struct {
	TargetUserID int64 `json:"target_user_id"`
}

type UndoResponse struct {
	RestoredUserID int64 `json:"restored_user_id"`
	UndosRemaining int   `json:"undos_remaining"`
}
