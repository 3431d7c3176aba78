package handler

import (
	"net/http"

	"github.com/donalcheung/dine-together-sub000/internal/achievement"
	"github.com/donalcheung/dine-together-sub000/internal/domain"
)

// AchievementHandlers contains HTTP handlers for the catalog and per-user state
type AchievementHandlers struct {
	service   achievement.Service
	summaries SummaryInvalidator
}

// SummaryInvalidator drops cached progression summaries that embed display state
type SummaryInvalidator interface {
	InvalidateSummary(userID string)
}

// NewAchievementHandlers creates new achievement handlers. summaries may be nil.
func NewAchievementHandlers(service achievement.Service, summaries SummaryInvalidator) *AchievementHandlers {
	return &AchievementHandlers{service: service, summaries: summaries}
}

// CatalogResponse lists every catalog entry in display order
type CatalogResponse struct {
	Achievements []*achievement.Achievement `json:"achievements"`
}

// UserAchievementsResponse merges the catalog with the user's progress
type UserAchievementsResponse struct {
	UserID       string                       `json:"user_id"`
	Achievements []domain.UserAchievementView `json:"achievements"`
}

// SetDisplayedRequest selects the showcased achievement. An empty key clears it.
type SetDisplayedRequest struct {
	UserID         string `json:"user_id" validate:"required,max=100"`
	AchievementKey string `json:"achievement_key" validate:"max=100"`
}

// HandleGetCatalog returns the static catalog
// @Summary Achievement catalog
// @Tags achievements
// @Produce json
// @Success 200 {object} CatalogResponse
// @Security ApiKeyAuth
// @Router /api/v1/achievements [get]
func (h *AchievementHandlers) HandleGetCatalog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, CatalogResponse{Achievements: h.service.Catalog()})
	}
}

// HandleGetUserAchievements returns progress, unlock and display state for a user
// @Summary User achievements
// @Tags achievements
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {object} UserAchievementsResponse
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/achievements/user [get]
func (h *AchievementHandlers) HandleGetUserAchievements() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetQueryParam(r, w, "user_id")
		if !ok {
			return
		}

		views, err := h.service.GetUserAchievements(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetAchievementsFailed, err)
			return
		}
		respondJSON(w, http.StatusOK, UserAchievementsResponse{UserID: userID, Achievements: views})
	}
}

// HandleSetDisplayed marks one unlocked achievement as displayed
// @Summary Set displayed achievement
// @Tags achievements
// @Accept json
// @Produce json
// @Param request body SetDisplayedRequest true "Selection"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse "Unknown achievement"
// @Failure 409 {object} ErrorResponse "Not unlocked"
// @Security ApiKeyAuth
// @Router /api/v1/achievements/display [post]
func (h *AchievementHandlers) HandleSetDisplayed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SetDisplayedRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Set displayed achievement"); err != nil {
			return
		}

		if err := h.service.SetDisplayed(r.Context(), req.UserID, req.AchievementKey); err != nil {
			respondServiceError(w, r, ErrMsgSetDisplayedFailed, err)
			return
		}
		if h.summaries != nil {
			h.summaries.InvalidateSummary(req.UserID)
		}

		msg := MsgDisplayedUpdated
		if req.AchievementKey == "" {
			msg = MsgDisplayedCleared
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: msg})
	}
}
