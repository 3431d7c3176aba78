package domain

// Event type constants used across the application for event bus subscriptions
// and metrics tracking. These represent domain events that can be published
// and consumed by multiple modules.
//
// Event types follow the pattern: <entity>.<action> (e.g., "xp.awarded")
const (
	// EventTypeXPAwarded is published for every ledger entry written by the awarder
	EventTypeXPAwarded = "xp.awarded"

	// EventTypeLevelUp is published when an award moves a user to a higher level
	EventTypeLevelUp = "progression.level_up"

	// EventTypeAchievementUnlocked is published once per achievement per user
	EventTypeAchievementUnlocked = "achievement.unlocked"

	// EventTypeMealCompleted is published after the meal-completion workflow ran all steps
	EventTypeMealCompleted = "meal.completed"

	// EventTypeProgressionReconciled is published when reconciliation repaired a user's state
	EventTypeProgressionReconciled = "progression.reconciled"
)
