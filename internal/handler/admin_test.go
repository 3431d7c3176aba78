package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
	"github.com/donalcheung/dine-together-sub000/internal/eventlog"
	"github.com/donalcheung/dine-together-sub000/internal/reconcile"
	"github.com/donalcheung/dine-together-sub000/internal/repository"
)

func TestAdminHandlers_HandleReconcile(t *testing.T) {
	t.Run("Single user", func(t *testing.T) {
		mockSvc := &MockReconcileService{}
		mockSvc.On("ReconcileUser", mock.Anything, "u1").Return(&domain.ReconcileResult{
			UserID: "u1", TotalXPBefore: 40, TotalXPAfter: 60, BackfilledKeys: []string{"first_bite"},
		}, nil)

		rec := httptest.NewRecorder()
		NewAdminHandlers(mockSvc, nil).HandleReconcile()(rec,
			httptest.NewRequest(http.MethodPost, "/api/v1/admin/reconcile", jsonBody(t, ReconcileRequest{UserID: "u1"})))

		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decode[ReconcileUserResponse](t, rec)
		assert.True(t, resp.Changed)
		assert.Equal(t, int64(60), resp.Result.TotalXPAfter)
		mockSvc.AssertNotCalled(t, "RunOnce", mock.Anything)
	})

	t.Run("Unknown user", func(t *testing.T) {
		mockSvc := &MockReconcileService{}
		mockSvc.On("ReconcileUser", mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound)

		rec := httptest.NewRecorder()
		NewAdminHandlers(mockSvc, nil).HandleReconcile()(rec,
			httptest.NewRequest(http.MethodPost, "/api/v1/admin/reconcile", jsonBody(t, ReconcileRequest{UserID: "ghost"})))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("All users", func(t *testing.T) {
		mockSvc := &MockReconcileService{}
		mockSvc.On("RunOnce", mock.Anything).Return(&reconcile.RunSummary{Users: 3, Repaired: 1}, nil)

		rec := httptest.NewRecorder()
		NewAdminHandlers(mockSvc, nil).HandleReconcile()(rec,
			httptest.NewRequest(http.MethodPost, "/api/v1/admin/reconcile", jsonBody(t, ReconcileRequest{})))

		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decode[ReconcileAllResponse](t, rec)
		assert.Equal(t, 3, resp.Summary.Users)
		assert.Equal(t, 1, resp.Summary.Repaired)
	})

	t.Run("Pass timed out", func(t *testing.T) {
		mockSvc := &MockReconcileService{}
		mockSvc.On("RunOnce", mock.Anything).Return(nil, fmt.Errorf("reconcile: %w", context.DeadlineExceeded))

		rec := httptest.NewRecorder()
		NewAdminHandlers(mockSvc, nil).HandleReconcile()(rec,
			httptest.NewRequest(http.MethodPost, "/api/v1/admin/reconcile", jsonBody(t, ReconcileRequest{})))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestAdminHandlers_HandleListEvents(t *testing.T) {
	t.Run("Filters from query", func(t *testing.T) {
		since := time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)
		uid := "alice"
		mockSvc := &MockEventLogService{}
		mockSvc.On("ListEvents", mock.Anything, mock.MatchedBy(func(f repository.EventLogFilter) bool {
			return f.UserID != nil && *f.UserID == "alice" &&
				f.EventType != nil && *f.EventType == "meal.completed" &&
				f.Since != nil && f.Since.Equal(since) &&
				f.Until == nil && f.Limit == 5
		})).Return([]repository.EventLogEntry{
			{ID: 7, EventType: "meal.completed", UserID: &uid, Payload: map[string]interface{}{"request_id": "req-1"}},
		}, nil)

		rec := httptest.NewRecorder()
		NewAdminHandlers(nil, mockSvc).HandleListEvents()(rec, httptest.NewRequest(http.MethodGet,
			"/api/v1/admin/events?user_id=alice&type=meal.completed&since=2025-01-04T00:00:00Z&limit=5", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[EventsResponse](t, rec)
		assert.Equal(t, 1, resp.Count)
		assert.Equal(t, "req-1", resp.Events[0].Payload["request_id"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("No filter uses default limit", func(t *testing.T) {
		mockSvc := &MockEventLogService{}
		mockSvc.On("ListEvents", mock.Anything, repository.EventLogFilter{Limit: eventlog.DefaultQueryLimit}).
			Return([]repository.EventLogEntry{}, nil)

		rec := httptest.NewRecorder()
		NewAdminHandlers(nil, mockSvc).HandleListEvents()(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/events", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0, decode[EventsResponse](t, rec).Count)
	})

	t.Run("Malformed since", func(t *testing.T) {
		mockSvc := &MockEventLogService{}

		rec := httptest.NewRecorder()
		NewAdminHandlers(nil, mockSvc).HandleListEvents()(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/events?since=yesterday", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockSvc.AssertNotCalled(t, "ListEvents", mock.Anything, mock.Anything)
	})

	t.Run("Inverted window", func(t *testing.T) {
		mockSvc := &MockEventLogService{}
		mockSvc.On("ListEvents", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: until precedes since", domain.ErrInvalidInput))

		rec := httptest.NewRecorder()
		NewAdminHandlers(nil, mockSvc).HandleListEvents()(rec, httptest.NewRequest(http.MethodGet,
			"/api/v1/admin/events?since=2025-02-01T00:00:00Z&until=2025-01-01T00:00:00Z", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Storage failure", func(t *testing.T) {
		mockSvc := &MockEventLogService{}
		mockSvc.On("ListEvents", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

		rec := httptest.NewRecorder()
		NewAdminHandlers(nil, mockSvc).HandleListEvents()(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/events", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
