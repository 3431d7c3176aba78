package eventlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
	"github.com/donalcheung/dine-together-sub000/internal/event"
	"github.com/donalcheung/dine-together-sub000/internal/repository"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) LogEvent(ctx context.Context, eventType string, userID *string, payload, metadata map[string]interface{}) error {
	args := m.Called(ctx, eventType, userID, payload, metadata)
	return args.Error(0)
}

func (m *MockRepository) ListEvents(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]repository.EventLogEntry), args.Error(1)
}

func (m *MockRepository) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Error(1)
}

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, evt event.Event) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *MockEventBus) Subscribe(eventType event.Type, handler event.Handler) {
	m.Called(eventType, handler)
}

func TestService_Subscribe(t *testing.T) {
	svc := NewService(new(MockRepository))
	mockBus := new(MockEventBus)

	for _, et := range event.AllTypes {
		mockBus.On("Subscribe", et, mock.Anything).Return().Once()
	}

	require.NoError(t, svc.Subscribe(mockBus))
	mockBus.AssertExpectations(t)
}

func TestService_HandleTypedPayload(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo).(*service)
	ctx := context.Background()

	txn := &domain.XPTransaction{UserID: "user123", Amount: 20, Reason: "Completed a meal as guest", CreatedAt: time.Unix(1700000000, 0)}
	evt := event.NewXPAwardedEvent(txn, 30, "meal")

	mockRepo.On("LogEvent", ctx, string(event.XPAwarded),
		mock.MatchedBy(func(uid *string) bool { return uid != nil && *uid == "user123" }),
		mock.MatchedBy(func(p map[string]interface{}) bool {
			return p["reason"] == "Completed a meal as guest" && p["amount"] == float64(20)
		}),
		map[string]interface{}{event.MetadataKeySource: "meal"},
	).Return(nil).Once()

	require.NoError(t, svc.handleEvent(ctx, evt))
	mockRepo.AssertExpectations(t)
}

func TestService_HandleEventThroughBus(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)
	bus := event.NewMemoryBus()
	require.NoError(t, svc.Subscribe(bus))

	mockRepo.On("LogEvent", mock.Anything, string(event.AchievementUnlocked), mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()

	evt := event.NewAchievementUnlockedEvent("u1", "first_bite", "First Bite", domain.CategoryMilestone, 10)
	require.NoError(t, bus.Publish(context.Background(), evt))
	mockRepo.AssertExpectations(t)
}

func TestService_HandleEventRepoError(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo).(*service)
	ctx := context.Background()

	mockRepo.On("LogEvent", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db down"))

	evt := event.NewAchievementUnlockedEvent("u1", "first_bite", "First Bite", domain.CategoryMilestone, 10)
	assert.Error(t, svc.handleEvent(ctx, evt))
}

func byUserWithLimit(userID string, limit int) interface{} {
	return mock.MatchedBy(func(f repository.EventLogFilter) bool {
		return f.UserID != nil && *f.UserID == userID && f.EventType == nil && f.Limit == limit
	})
}

func TestService_GetUserEventsClampsLimit(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)
	ctx := context.Background()

	mockRepo.On("ListEvents", ctx, byUserWithLimit("u1", DefaultQueryLimit)).Return([]repository.EventLogEntry{}, nil).Once()
	mockRepo.On("ListEvents", ctx, byUserWithLimit("u1", MaxQueryLimit)).Return([]repository.EventLogEntry{}, nil).Once()

	_, err := svc.GetUserEvents(ctx, "u1", 0)
	require.NoError(t, err)
	_, err = svc.GetUserEvents(ctx, "u1", 5000)
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_ListEvents(t *testing.T) {
	ctx := context.Background()
	kind := string(event.MealCompleted)

	t.Run("passes filter through", func(t *testing.T) {
		mockRepo := new(MockRepository)
		filter := repository.EventLogFilter{EventType: &kind, Limit: 25}
		mockRepo.On("ListEvents", ctx, filter).Return([]repository.EventLogEntry{{ID: 1, EventType: kind}}, nil).Once()

		got, err := NewService(mockRepo).ListEvents(ctx, filter)
		require.NoError(t, err)
		require.Len(t, got, 1)
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects inverted window", func(t *testing.T) {
		mockRepo := new(MockRepository)
		since := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		until := since.Add(-time.Hour)

		_, err := NewService(mockRepo).ListEvents(ctx, repository.EventLogFilter{Since: &since, Until: &until})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		mockRepo.AssertNotCalled(t, "ListEvents", mock.Anything, mock.Anything)
	})
}

func TestService_CleanupOldEvents(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)
	ctx := context.Background()

	mockRepo.On("CleanupOldEvents", ctx, 10).Return(int64(5), nil)

	count, err := svc.CleanupOldEvents(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
	mockRepo.AssertExpectations(t)
}
