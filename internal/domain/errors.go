package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// User errors
	ErrMsgUserNotFound = "user not found"

	// Achievement errors
	ErrMsgUnknownAchievement     = "unknown achievement"
	ErrMsgAchievementNotUnlocked = "achievement is not unlocked"

	// XP errors
	ErrMsgUnknownAction = "unknown xp action"
	ErrMsgEmptyReason   = "xp reason is required"

	// Meal errors
	ErrMsgInvalidDiningTime = "invalid dining time"

	// Stats errors
	ErrMsgInvalidStats = "invalid stats snapshot"

	// Database/System errors
	ErrMsgDatabaseError     = "database error"
	ErrMsgConcurrentUpdate  = "concurrent update"
	ErrMsgDeadlockDetected  = "deadlock detected"
	ErrMsgConnectionTimeout = "connection timeout"
	ErrMsgTxClosed          = "tx is closed"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// User errors
	ErrUserNotFound = errors.New(ErrMsgUserNotFound)

	// Achievement errors
	ErrUnknownAchievement     = errors.New(ErrMsgUnknownAchievement)
	ErrAchievementNotUnlocked = errors.New(ErrMsgAchievementNotUnlocked)

	// XP errors
	ErrUnknownAction = errors.New(ErrMsgUnknownAction)
	ErrEmptyReason   = errors.New(ErrMsgEmptyReason)

	// Meal errors
	ErrInvalidDiningTime = errors.New(ErrMsgInvalidDiningTime)

	// Stats errors
	ErrInvalidStats = errors.New(ErrMsgInvalidStats)

	// Database errors
	ErrDatabaseError = errors.New(ErrMsgDatabaseError)

	// ErrConcurrentUpdate is returned by storage when a serialization failure or
	// deadlock aborted the transaction. Callers may retry.
	ErrConcurrentUpdate = errors.New(ErrMsgConcurrentUpdate)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
