package postgres

// PostgreSQL Error Codes
const (
	PgErrorCodeUniqueViolation      = "23505"
	PgErrorCodeSerializationFailure = "40001"
	PgErrorCodeDeadlockDetected     = "40P01"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Progression Operations
const (
	ErrMsgFailedToCreateProgression = "failed to create progression"
	ErrMsgFailedToGetProgression    = "failed to get progression"
	ErrMsgFailedToIncrementTotal    = "failed to increment total xp"
	ErrMsgFailedToUpdateLevel       = "failed to update level"
	ErrMsgFailedToInsertTransaction = "failed to insert xp transaction"
	ErrMsgFailedToQueryTransactions = "failed to query xp transactions"
	ErrMsgFailedToSumTransactions   = "failed to sum xp transactions"
	ErrMsgFailedToCheckTransaction  = "failed to check xp transaction"
	ErrMsgFailedToReconcileTotal    = "failed to reconcile total xp"
	ErrMsgFailedToQueryUserIDs      = "failed to query user ids"
	ErrMsgFailedToScanTransaction   = "failed to scan xp transaction"
	ErrMsgRowIteration              = "row iteration error"
)

// Error Messages - Achievement Operations
const (
	ErrMsgFailedToQueryAchievements = "failed to query user achievements"
	ErrMsgFailedToUpsertProgress    = "failed to upsert achievement progress"
	ErrMsgFailedToMarkUnlocked      = "failed to mark achievement unlocked"
	ErrMsgFailedToCheckUnlocked     = "failed to check achievement unlock"
	ErrMsgFailedToClearDisplayed    = "failed to clear displayed achievement"
	ErrMsgFailedToSetDisplayed      = "failed to set displayed achievement"
)

// Error Messages - Dining Stats Operations
const (
	ErrMsgFailedToInsertMeal     = "failed to insert meal"
	ErrMsgFailedToQueryMeals     = "failed to query meals"
	ErrMsgFailedToUpsertStats    = "failed to upsert dining stats"
	ErrMsgFailedToQueryStats     = "failed to query dining stats"
	ErrMsgFailedToUpsertCuisine  = "failed to upsert cuisine count"
	ErrMsgFailedToInsertCity     = "failed to insert city"
	ErrMsgFailedToInsertPartners = "failed to insert dining partners"
	ErrMsgFailedToClearStats     = "failed to clear dining stats"
	ErrMsgFailedToLockStats      = "failed to lock dining stats"
)

// Error Messages - Event Log Operations
const (
	ErrMsgFailedToMarshalEventData   = "failed to marshal event data"
	ErrMsgFailedToInsertEvent        = "failed to insert event"
	ErrMsgFailedToQueryEvents        = "failed to query events"
	ErrMsgFailedToUnmarshalEventData = "failed to unmarshal event data"
	ErrMsgFailedToCleanupEvents      = "failed to clean up events"
)
