package xp

import "time"

// Award retry policy for storage contention
const (
	// AwardMaxAttempts bounds how often Award tries a contended write
	AwardMaxAttempts = 3

	// AwardRetryBackoff is multiplied by the attempt number between tries
	AwardRetryBackoff = 25 * time.Millisecond
)

// Default limits
const (
	DefaultTransactionLimit = 50
	MaxTransactionLimit     = 500
)

// Action keys for one-shot awards made by the UI
const (
	ActionCreateRequest   = "create_request"
	ActionJoinRequest     = "join_request"
	ActionCompleteProfile = "complete_profile"
	ActionAddProfilePhoto = "add_profile_photo"
	ActionSendMessage     = "send_message"
	ActionWriteReview     = "write_review"
)

// ActionReward is a fixed award for a UI action
type ActionReward struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

// actionRewards is the constants table for one-shot awards
var actionRewards = map[string]ActionReward{
	ActionCreateRequest:   {Amount: 15, Reason: "Created a dining request"},
	ActionJoinRequest:     {Amount: 10, Reason: "Joined a dining request"},
	ActionCompleteProfile: {Amount: 25, Reason: "Completed your profile"},
	ActionAddProfilePhoto: {Amount: 10, Reason: "Added a profile photo"},
	ActionSendMessage:     {Amount: 2, Reason: "Sent a message"},
	ActionWriteReview:     {Amount: 15, Reason: "Wrote a review"},
}

// LookupAction returns the reward for an action key
func LookupAction(action string) (ActionReward, bool) {
	r, ok := actionRewards[action]
	return r, ok
}

// Actions returns a copy of the action table
func Actions() map[string]ActionReward {
	out := make(map[string]ActionReward, len(actionRewards))
	for k, v := range actionRewards {
		out[k] = v
	}
	return out
}

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgUserInitialized     = "Progression initialized"
	LogMsgXPAwarded           = "XP awarded"
	LogMsgLevelUp             = "User leveled up"
	LogMsgAwardRetry          = "XP award contended, retrying"
	LogMsgAwardFailed         = "Failed to award XP"
	LogMsgTotalReconciled     = "Progression total repaired from ledger"
	LogMsgSummaryCacheHit     = "Progression summary cache hit"
	LogMsgAchievementCountErr = "Failed to load achievement state for summary"
)

// ============================================================================
// Error Messages
// ============================================================================

const (
	ErrMsgUserIDRequired = "user id is required"
)
