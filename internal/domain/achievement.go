package domain

import "time"

// AchievementCategory groups catalog entries for display
type AchievementCategory string

const (
	CategoryCuisine   AchievementCategory = "cuisine"
	CategoryBehavior  AchievementCategory = "behavior"
	CategoryMilestone AchievementCategory = "milestone"
)

// AchievementReasonPrefix prefixes the ledger reason of every unlock bonus
const AchievementReasonPrefix = "Unlocked achievement: "

// AchievementReason builds the ledger reason for an unlock bonus
func AchievementReason(name string) string {
	return AchievementReasonPrefix + name
}

// UserAchievement is the persisted per-user, per-achievement record.
// UnlockedAt moves from nil to a timestamp exactly once.
type UserAchievement struct {
	UserID         string     `json:"user_id"`
	AchievementKey string     `json:"achievement_key"`
	Progress       int        `json:"progress"`
	Target         int        `json:"target"`
	UnlockedAt     *time.Time `json:"unlocked_at,omitempty"`
	IsDisplayed    bool       `json:"is_displayed"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsUnlocked reports whether the record has been unlocked
func (a *UserAchievement) IsUnlocked() bool {
	return a != nil && a.UnlockedAt != nil
}

// AchievementStatus is the evaluator's view of one catalog entry against a snapshot
type AchievementStatus struct {
	Key             string `json:"key"`
	Progress        int    `json:"progress"`
	Target          int    `json:"target"`
	IsUnlocked      bool   `json:"is_unlocked"`
	ProgressPercent int    `json:"progress_percent"`
}

// UserAchievementView merges a catalog entry with the user's stored record
type UserAchievementView struct {
	Key             string              `json:"key"`
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	Icon            string              `json:"icon"`
	Category        AchievementCategory `json:"category"`
	XPBonus         int64               `json:"xp_bonus"`
	Progress        int                 `json:"progress"`
	Target          int                 `json:"target"`
	ProgressPercent int                 `json:"progress_percent"`
	UnlockedAt      *time.Time          `json:"unlocked_at,omitempty"`
	IsDisplayed     bool                `json:"is_displayed"`
}
