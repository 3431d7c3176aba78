package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/donalcheung/dine-together-sub000/internal/achievement"
	"github.com/donalcheung/dine-together-sub000/internal/database/memory"
	"github.com/donalcheung/dine-together-sub000/internal/domain"
)

func TestAchievementHandlers_HandleGetCatalog(t *testing.T) {
	catalog := achievement.MustDefault()
	svc := achievement.NewService(achievement.NewEvaluator(catalog), memory.NewStore(), memory.NewStore())

	rec := httptest.NewRecorder()
	NewAchievementHandlers(svc, nil).HandleGetCatalog()(rec, httptest.NewRequest(http.MethodGet, "/api/v1/achievements", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode[CatalogResponse](t, rec)
	assert.Len(t, resp.Achievements, catalog.Len())

	keys := make(map[string]bool)
	for _, a := range resp.Achievements {
		keys[a.Key] = true
	}
	assert.True(t, keys["first_bite"])
	assert.True(t, keys["dim_sum_master"])
}

func TestAchievementHandlers_HandleGetUserAchievements(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		unlocked := time.Date(2025, 1, 4, 12, 0, 0, 0, time.UTC)
		mockSvc := &MockAchievementService{}
		mockSvc.On("GetUserAchievements", mock.Anything, "u1").Return([]domain.UserAchievementView{
			{Key: "first_bite", Progress: 1, Target: 1, ProgressPercent: 100, UnlockedAt: &unlocked, IsDisplayed: true},
			{Key: "regular", Progress: 1, Target: 10, ProgressPercent: 10},
		}, nil)

		rec := httptest.NewRecorder()
		NewAchievementHandlers(mockSvc, nil).HandleGetUserAchievements()(rec,
			httptest.NewRequest(http.MethodGet, "/api/v1/achievements/user?user_id=u1", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decode[UserAchievementsResponse](t, rec)
		assert.Len(t, resp.Achievements, 2)
		assert.True(t, resp.Achievements[0].IsDisplayed)
		assert.Nil(t, resp.Achievements[1].UnlockedAt)
	})

	t.Run("Storage failure", func(t *testing.T) {
		mockSvc := &MockAchievementService{}
		mockSvc.On("GetUserAchievements", mock.Anything, "u1").
			Return(nil, fmt.Errorf("failed to get achievement records: %w", domain.ErrDatabaseError))

		rec := httptest.NewRecorder()
		NewAchievementHandlers(mockSvc, nil).HandleGetUserAchievements()(rec,
			httptest.NewRequest(http.MethodGet, "/api/v1/achievements/user?user_id=u1", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, ErrMsgGenericServerError, decode[ErrorResponse](t, rec).Error)
	})
}

func TestAchievementHandlers_HandleSetDisplayed(t *testing.T) {
	tests := []struct {
		name           string
		body           SetDisplayedRequest
		serviceErr     error
		expectedStatus int
		expectedMsg    string
		invalidates    bool
	}{
		{"Display unlocked", SetDisplayedRequest{UserID: "u1", AchievementKey: "first_bite"}, nil, http.StatusOK, MsgDisplayedUpdated, true},
		{"Clear", SetDisplayedRequest{UserID: "u1"}, nil, http.StatusOK, MsgDisplayedCleared, true},
		{"Not unlocked", SetDisplayedRequest{UserID: "u1", AchievementKey: "regular"}, domain.ErrAchievementNotUnlocked, http.StatusConflict, ErrMsgAchievementNotUnlockedError, false},
		{"Unknown key", SetDisplayedRequest{UserID: "u1", AchievementKey: "nope"}, domain.ErrUnknownAchievement, http.StatusNotFound, ErrMsgAchievementNotFoundError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := &MockAchievementService{}
			mockSvc.On("SetDisplayed", mock.Anything, tt.body.UserID, tt.body.AchievementKey).Return(tt.serviceErr)
			summaries := &MockXPService{}
			if tt.invalidates {
				summaries.On("InvalidateSummary", tt.body.UserID).Return()
			}

			rec := httptest.NewRecorder()
			NewAchievementHandlers(mockSvc, summaries).HandleSetDisplayed()(rec,
				httptest.NewRequest(http.MethodPost, "/api/v1/achievements/display", jsonBody(t, tt.body)))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedMsg)
			mockSvc.AssertExpectations(t)
			summaries.AssertExpectations(t)
			if !tt.invalidates {
				summaries.AssertNotCalled(t, "InvalidateSummary", mock.Anything)
			}
		})
	}
}
