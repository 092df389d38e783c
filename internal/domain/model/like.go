package model

import (
	"time"

	"github.com/Anayo007/linkup/internal/domain/enums"
)

type Like struct {
	ID             int64            `json:"id"`
	FromUserID     int64            `json:"from_user_id"`
	ToUserID       int64            `json:"to_user_id"`
	TargetKind     enums.LikeTarget `json:"target_kind"`
	PhotoID        *int64           `json:"photo_id,omitempty"`
	PromptAnswerID *int64           `json:"prompt_answer_id,omitempty"`
	Comment        string           `json:"comment,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

type Skip struct {
	ID        int64     `json:"id"`
	SkipperID int64     `json:"skipper_id"`
	SkippedID int64     `json:"skipped_id"`
	CreatedAt time.Time `json:"created_at"`
}
