package domain

import (
	"time"

	"github.com/google/uuid"
)

// WelcomeBonusXP is seeded into every new progression record
const WelcomeBonusXP int64 = 10

// ReasonWelcomeBonus is the ledger reason for the welcome bonus
const ReasonWelcomeBonus = "Welcome to Dine Together!"

// Progression is the per-user progression record.
// CurrentLevel is a cached copy of level.LevelForXP(TotalXP); TotalXP is the source of truth.
type Progression struct {
	UserID       string    `json:"user_id"`
	TotalXP      int64     `json:"total_xp"`
	CurrentLevel int       `json:"current_level"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// XPTransaction is an immutable ledger entry
type XPTransaction struct {
	ID               uuid.UUID `json:"id"`
	UserID           string    `json:"user_id"`
	Amount           int64     `json:"amount"`
	Reason           string    `json:"reason"`
	RelatedRequestID *string   `json:"related_request_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// LevelUpResult is the outcome of a single award
type LevelUpResult struct {
	LeveledUp  bool  `json:"leveled_up"`
	OldLevel   int   `json:"old_level"`
	NewLevel   int   `json:"new_level"`
	NewTotalXP int64 `json:"new_total_xp"`
}

// ProgressionSummary is the read model served to the UI
type ProgressionSummary struct {
	UserID          string `json:"user_id"`
	TotalXP         int64  `json:"total_xp"`
	CurrentLevel    int    `json:"current_level"`
	XPIntoLevel     int64  `json:"xp_into_level"`
	XPNeededForNext int64  `json:"xp_needed_for_next"`
	ProgressPercent int    `json:"progress_percent"`
	UnlockedCount   int    `json:"unlocked_achievements"`
	DisplayedKey    string `json:"displayed_achievement,omitempty"`
}

// ReconcileResult describes what a reconciliation pass changed for one user
type ReconcileResult struct {
	UserID         string   `json:"user_id"`
	TotalXPBefore  int64    `json:"total_xp_before"`
	TotalXPAfter   int64    `json:"total_xp_after"`
	StatsRebuilt   bool     `json:"stats_rebuilt"`
	NewlyUnlocked  []string `json:"newly_unlocked,omitempty"`
	BackfilledKeys []string `json:"backfilled_keys,omitempty"`
}

// Changed reports whether the pass repaired anything
func (r *ReconcileResult) Changed() bool {
	return r.TotalXPBefore != r.TotalXPAfter || r.StatsRebuilt ||
		len(r.NewlyUnlocked) > 0 || len(r.BackfilledKeys) > 0
}
