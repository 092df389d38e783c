package enums

import "strings"

type TierName string

const (
	TierFree    TierName = "free"
	TierPlus    TierName = "plus"
	TierPremium TierName = "premium"
)

// UnlimitedQuota marks a tier quota column with no daily cap.
const UnlimitedQuota = -1

func NormalizeTierName(raw string) TierName {
	name := TierName(strings.ToLower(strings.TrimSpace(raw)))
	switch name {
	case TierPlus, TierPremium:
		return name
	default:
		return TierFree
	}
}
