package model

// SubscriptionTier is configuration, not billing. DailyLikes and DailyUndos
// use -1 for unlimited.
type SubscriptionTier struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	DisplayName       string `json:"display_name"`
	Description       string `json:"description"`
	MonthlyPriceCents int    `json:"monthly_price_cents"`
	YearlyPriceCents  int    `json:"yearly_price_cents"`
	DailyLikes        int    `json:"daily_likes"`
	DailyUndos        int    `json:"daily_undos"`
	SeeWhoLikesYou    bool   `json:"see_who_likes_you"`
	AdvancedFilters   bool   `json:"advanced_filters"`
	ReadReceipts      bool   `json:"read_receipts"`
	PrioritySupport   bool   `json:"priority_support"`
	ProfileBoost      bool   `json:"profile_boost"`
	NoAds             bool   `json:"no_ads"`
	BadgeColor        string `json:"badge_color"`
	BadgeIcon         string `json:"badge_icon"`
	SortOrder         int    `json:"sort_order"`
	IsActive          bool   `json:"is_active"`
}

type AppSettings struct {
	MaintenanceMode    bool   `json:"maintenance_mode"`
	MaintenanceMessage string `json:"maintenance_message"`
	SignupsEnabled     bool   `json:"signups_enabled"`
}
