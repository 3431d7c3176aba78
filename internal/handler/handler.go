// Package handler exposes the progression services over HTTP.
package handler

import (
	"github.com/donalcheung/dine-together-sub000/internal/achievement"
	"github.com/donalcheung/dine-together-sub000/internal/eventlog"
	"github.com/donalcheung/dine-together-sub000/internal/meal"
	"github.com/donalcheung/dine-together-sub000/internal/reconcile"
	"github.com/donalcheung/dine-together-sub000/internal/xp"
)

// Handlers groups every handler set mounted by the router
type Handlers struct {
	Progression  *ProgressionHandlers
	Achievements *AchievementHandlers
	Meals        *MealHandlers
	Admin        *AdminHandlers
}

// NewHandlers builds every handler set from the services
func NewHandlers(xpSvc xp.Service, achievements achievement.Service, meals meal.Service, reconciler reconcile.Service, events eventlog.Service) *Handlers {
	return &Handlers{
		Progression:  NewProgressionHandlers(xpSvc),
		Achievements: NewAchievementHandlers(achievements, xpSvc),
		Meals:        NewMealHandlers(meals),
		Admin:        NewAdminHandlers(reconciler, events),
	}
}
