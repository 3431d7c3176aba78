package repository

import (
	"context"
	"time"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
)

// Achievement defines persistence for per-user achievement records
type Achievement interface {
	GetUserAchievements(ctx context.Context, userID string) ([]domain.UserAchievement, error)

	// UpsertProgress stores progress and target keyed by (user, achievement).
	// It never touches unlocked_at or is_displayed.
	UpsertProgress(ctx context.Context, userID string, statuses []domain.AchievementStatus) error

	// MarkUnlocked sets unlocked_at only if it is still null.
	// Returns true when this call performed the transition.
	MarkUnlocked(ctx context.Context, userID, key string, progress, target int, at time.Time) (bool, error)

	// SetDisplayed marks one unlocked achievement as displayed and clears all others.
	// An empty key clears the selection. Returns domain.ErrAchievementNotUnlocked
	// if the achievement is not unlocked for the user.
	SetDisplayed(ctx context.Context, userID, key string) error
}
