package enums

import "strings"

// LikeTarget names the profile element a like points at.
type LikeTarget string

const (
	LikeTargetPhoto  LikeTarget = "photo"
	LikeTargetPrompt LikeTarget = "prompt"
)

func ParseLikeTarget(raw string) (LikeTarget, bool) {
	switch LikeTarget(strings.ToLower(strings.TrimSpace(raw))) {
	case LikeTargetPhoto:
		return LikeTargetPhoto, true
	case LikeTargetPrompt:
		return LikeTargetPrompt, true
	default:
		return "", false
	}
}
