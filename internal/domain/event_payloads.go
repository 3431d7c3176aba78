package domain

// XPAwardedPayload is the event payload for xp.awarded events
type XPAwardedPayload struct {
	UserID           string  `json:"user_id"`
	Amount           int64   `json:"amount"`
	Reason           string  `json:"reason"`
	RelatedRequestID *string `json:"related_request_id,omitempty"`
	NewTotalXP       int64   `json:"new_total_xp"`
	Timestamp        int64   `json:"timestamp"`
}

// LevelUpPayload is the event payload for progression.level_up events
type LevelUpPayload struct {
	UserID     string `json:"user_id"`
	OldLevel   int    `json:"old_level"`
	NewLevel   int    `json:"new_level"`
	NewTotalXP int64  `json:"new_total_xp"`
	Timestamp  int64  `json:"timestamp"`
}

// AchievementUnlockedPayload is the event payload for achievement.unlocked events
type AchievementUnlockedPayload struct {
	UserID         string              `json:"user_id"`
	AchievementKey string              `json:"achievement_key"`
	Name           string              `json:"name"`
	Category       AchievementCategory `json:"category"`
	XPBonus        int64               `json:"xp_bonus"`
	Timestamp      int64               `json:"timestamp"`
}

// MealCompletedPayload is the event payload for meal.completed events
type MealCompletedPayload struct {
	UserID        string   `json:"user_id"`
	RequestID     string   `json:"request_id"`
	IsHost        bool     `json:"is_host"`
	Cuisine       string   `json:"cuisine,omitempty"`
	City          string   `json:"city,omitempty"`
	NewlyUnlocked []string `json:"newly_unlocked"`
	FailedSteps   []string `json:"failed_steps,omitempty"`
	Timestamp     int64    `json:"timestamp"`
}

// ProgressionReconciledPayload is the event payload for progression.reconciled events
type ProgressionReconciledPayload struct {
	UserID         string   `json:"user_id"`
	TotalXPBefore  int64    `json:"total_xp_before"`
	TotalXPAfter   int64    `json:"total_xp_after"`
	StatsRebuilt   bool     `json:"stats_rebuilt"`
	BackfilledKeys []string `json:"backfilled_keys,omitempty"`
	NewlyUnlocked  []string `json:"newly_unlocked,omitempty"`
	Timestamp      int64    `json:"timestamp"`
}
