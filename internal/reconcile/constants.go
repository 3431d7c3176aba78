package reconcile

import "time"

const (
	// DefaultBatchSize is the number of user ids fetched per page during a full pass
	DefaultBatchSize = 200

	// BackfillGracePeriod skips unlocks younger than this when looking for missing
	// bonuses, leaving room for the workflow that unlocked them to award the bonus
	BackfillGracePeriod = 5 * time.Minute
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgRunStarted        = "Reconciliation pass started"
	LogMsgRunCompleted      = "Reconciliation pass completed"
	LogMsgRunFailed         = "Reconciliation pass failed"
	LogMsgUserFailed        = "Reconciliation failed for user"
	LogMsgUserRepaired      = "Reconciliation repaired user"
	LogMsgStatsRebuilt      = "Dining stats rebuilt from meal history"
	LogMsgBonusBackfilled   = "Missing unlock bonus backfilled"
	LogMsgUnknownRecordKey  = "Stored achievement is not in the catalog"
	LogMsgReevaluateFailure = "Achievement re-evaluation reported errors"
)

// Log field keys
const (
	LogFieldUsers    = "users"
	LogFieldRepaired = "repaired"
	LogFieldFailed   = "failed"
	LogFieldDuration = "duration"
)
