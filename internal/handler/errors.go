package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidQueryParam = "Invalid %s query parameter"
	ErrMsgCurveQueryParam   = "Provide exactly one of level or xp"

	// Progression error messages
	ErrMsgInitializeUserFailed  = "Failed to initialize progression"
	ErrMsgGetSummaryFailed      = "Failed to retrieve progression"
	ErrMsgAwardXPFailed         = "Failed to award XP"
	ErrMsgAwardActionFailed     = "Failed to award action XP"
	ErrMsgGetTransactionsFailed = "Failed to retrieve XP transactions"

	// Achievement error messages
	ErrMsgGetAchievementsFailed = "Failed to retrieve achievements"
	ErrMsgSetDisplayedFailed    = "Failed to update displayed achievement"

	// Meal error messages
	ErrMsgCompleteMealFailed = "Failed to complete meal"
	ErrMsgReevaluateFailed   = "Failed to re-evaluate achievements"

	// Admin error messages
	ErrMsgReconcileFailed  = "Failed to reconcile progression"
	ErrMsgListEventsFailed = "Failed to retrieve events"
)

// Success messages for API responses
const (
	MsgProgressionCreated    = "Progression created"
	MsgProgressionExists     = "Progression already exists"
	MsgDisplayedUpdated      = "Displayed achievement updated"
	MsgDisplayedCleared      = "Displayed achievement cleared"
	MsgReconcileUserFinished = "User reconciled"
	MsgReconcileAllFinished  = "Reconciliation pass finished"
)

// Log messages
const (
	LogMsgDecodeFailed    = "Failed to decode %s request"
	LogMsgRequestDecoded  = "%s request decoded"
	LogMsgMissingParam    = "Missing %s query parameter"
	LogMsgServiceError    = "%s: service error"
	LogMsgRequestSuccess  = "%s: success"
	LogMsgReadinessFailed = "Readiness check failed"
)
