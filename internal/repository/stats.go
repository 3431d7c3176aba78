package repository

import (
	"context"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
)

// DiningStats defines persistence for dining counters and the meal history they derive from
type DiningStats interface {
	// GetSnapshot returns an empty snapshot when the user has no history
	GetSnapshot(ctx context.Context, userID string) (*domain.UserStatsSnapshot, error)

	// ApplyMeal appends the meal to the history and applies its increments to the
	// counters in one unit, returning the updated snapshot
	ApplyMeal(ctx context.Context, meal *domain.MealRecord) (*domain.UserStatsSnapshot, error)

	// RebuildFromHistory recomputes the counters and partner set from the meal history
	// and overwrites them when they differ. It reports whether anything changed.
	// It is atomic with respect to ApplyMeal for the same user.
	RebuildFromHistory(ctx context.Context, userID string) (bool, error)
}
