package meal

import "time"

// Workflow step names, in execution order
const (
	StepAwardBaseXP          = "award_base_xp"
	StepUpdateStats          = "update_stats"
	StepEvaluateAchievements = "evaluate_achievements"
)

// Step retry policy. Only idempotent steps are retried.
const (
	StepMaxAttempts  = 3
	StepRetryBackoff = 50 * time.Millisecond
)

// Time-of-day buckets in the diner's local time
const (
	BreakfastBeforeHour = 11
	LateFromHour        = 21
)

// Ledger reasons for the base completion award
const (
	ReasonCompletedAsHost  = "Completed a meal as host"
	ReasonCompletedAsGuest = "Completed a meal as guest"
)

// MinAddressParts is the number of comma-separated parts an address needs
// before a city is extracted from it
const MinAddressParts = 2

// countryNames are address parts that are never a city
var countryNames = map[string]bool{
	"usa":                      true,
	"us":                       true,
	"united states":            true,
	"united states of america": true,
	"canada":                   true,
	"mexico":                   true,
	"uk":                       true,
	"united kingdom":           true,
	"england":                  true,
	"scotland":                 true,
	"ireland":                  true,
	"australia":                true,
	"new zealand":              true,
	"france":                   true,
	"germany":                  true,
	"spain":                    true,
	"italy":                    true,
	"japan":                    true,
	"china":                    true,
	"south korea":              true,
	"korea":                    true,
	"vietnam":                  true,
	"india":                    true,
	"thailand":                 true,
}

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgMealCompletionStarted  = "Meal completion started"
	LogMsgMealCompletionFinished = "Meal completion finished"
	LogMsgStepStarted            = "Meal step started"
	LogMsgStepSucceeded          = "Meal step succeeded"
	LogMsgStepRetry              = "Meal step failed, retrying"
	LogMsgStepFailed             = "Meal step failed"
	LogMsgAchievementUnlocked    = "Achievement unlocked"
	LogMsgUnlockBonusFailed      = "Failed to award unlock bonus"
	LogMsgUnknownUnlockKey       = "Evaluator reported a key missing from the catalog"
)

// ============================================================================
// Error Messages
// ============================================================================

const (
	ErrMsgUserIDRequired    = "user_id is required"
	ErrMsgRequestIDRequired = "request_id is required"
	ErrMsgDiningTimeFormat  = "dining_time must be an ISO-8601 timestamp"
)
