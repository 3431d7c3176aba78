package handler

import (
	"net/http"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
	"github.com/donalcheung/dine-together-sub000/internal/logger"
	"github.com/donalcheung/dine-together-sub000/internal/meal"
)

// MealHandlers contains HTTP handlers for the meal-completion workflow
type MealHandlers struct {
	service meal.Service
}

// NewMealHandlers creates new meal handlers
func NewMealHandlers(service meal.Service) *MealHandlers {
	return &MealHandlers{service: service}
}

// ReevaluateRequest names the user whose stored stats are scored again
type ReevaluateRequest struct {
	UserID string `json:"user_id" validate:"required,max=100"`
}

// ReevaluateResponse lists achievements unlocked by the re-evaluation
type ReevaluateResponse struct {
	UserID        string   `json:"user_id"`
	NewlyUnlocked []string `json:"newly_unlocked"`
}

// HandleCompleteMeal runs the completion workflow. Step failures are reported in
// the body with a 200; only invalid input fails the request.
// @Summary Complete meal
// @Description Awards meal XP, folds the meal into dining stats and unlocks achievements
// @Tags meals
// @Accept json
// @Produce json
// @Param request body domain.MealCompletion true "Completed meal"
// @Success 200 {object} domain.MealCompletionResult
// @Failure 400 {object} ValidationErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/meals/complete [post]
func (h *MealHandlers) HandleCompleteMeal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req domain.MealCompletion
		if err := DecodeAndValidateRequest(r, w, &req, "Complete meal"); err != nil {
			return
		}
		LogRequestFields(log, "user_id", req.UserID, "request_id", req.RequestID, "is_host", req.IsHost)

		result, err := h.service.CompleteMeal(r.Context(), &req)
		if err != nil {
			respondServiceError(w, r, ErrMsgCompleteMealFailed, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleReevaluate scores the stored snapshot again and unlocks anything earned
// @Summary Re-evaluate achievements
// @Tags meals
// @Accept json
// @Produce json
// @Param request body ReevaluateRequest true "User"
// @Success 200 {object} ReevaluateResponse
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/meals/reevaluate [post]
func (h *MealHandlers) HandleReevaluate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReevaluateRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Re-evaluate achievements"); err != nil {
			return
		}

		unlocked, err := h.service.ReevaluateAchievements(r.Context(), req.UserID)
		if err != nil {
			respondServiceError(w, r, ErrMsgReevaluateFailed, err)
			return
		}
		respondJSON(w, http.StatusOK, ReevaluateResponse{UserID: req.UserID, NewlyUnlocked: unlocked})
	}
}
