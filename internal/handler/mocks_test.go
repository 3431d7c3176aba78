package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/donalcheung/dine-together-sub000/internal/achievement"
	"github.com/donalcheung/dine-together-sub000/internal/domain"
	"github.com/donalcheung/dine-together-sub000/internal/event"
	"github.com/donalcheung/dine-together-sub000/internal/reconcile"
	"github.com/donalcheung/dine-together-sub000/internal/repository"
)

// MockXPService mocks xp.Service
type MockXPService struct {
	mock.Mock
}

func (m *MockXPService) InitializeUser(ctx context.Context, userID string) (*domain.Progression, bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Progression), args.Bool(1), args.Error(2)
}

func (m *MockXPService) Award(ctx context.Context, userID string, amount int64, reason string, relatedRequestID *string) (*domain.LevelUpResult, error) {
	args := m.Called(ctx, userID, amount, reason, relatedRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LevelUpResult), args.Error(1)
}

func (m *MockXPService) AwardAction(ctx context.Context, userID, action string, relatedRequestID *string) (*domain.LevelUpResult, error) {
	args := m.Called(ctx, userID, action, relatedRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LevelUpResult), args.Error(1)
}

func (m *MockXPService) GetSummary(ctx context.Context, userID string) (*domain.ProgressionSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressionSummary), args.Error(1)
}

func (m *MockXPService) GetTransactions(ctx context.Context, userID string, limit int) ([]domain.XPTransaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.XPTransaction), args.Error(1)
}

func (m *MockXPService) ReconcileTotal(ctx context.Context, userID string) (int64, int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockXPService) InvalidateSummary(userID string) {
	m.Called(userID)
}

// MockAchievementService mocks achievement.Service
type MockAchievementService struct {
	mock.Mock
}

func (m *MockAchievementService) Catalog() []*achievement.Achievement {
	args := m.Called()
	return args.Get(0).([]*achievement.Achievement)
}

func (m *MockAchievementService) GetUserAchievements(ctx context.Context, userID string) ([]domain.UserAchievementView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserAchievementView), args.Error(1)
}

func (m *MockAchievementService) SetDisplayed(ctx context.Context, userID, key string) error {
	args := m.Called(ctx, userID, key)
	return args.Error(0)
}

// MockMealService mocks meal.Service
type MockMealService struct {
	mock.Mock
}

func (m *MockMealService) CompleteMeal(ctx context.Context, in *domain.MealCompletion) (*domain.MealCompletionResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MealCompletionResult), args.Error(1)
}

func (m *MockMealService) ReevaluateAchievements(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockReconcileService mocks reconcile.Service
type MockReconcileService struct {
	mock.Mock
}

func (m *MockReconcileService) ReconcileUser(ctx context.Context, userID string) (*domain.ReconcileResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconcileResult), args.Error(1)
}

func (m *MockReconcileService) RunOnce(ctx context.Context) (*reconcile.RunSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconcile.RunSummary), args.Error(1)
}

// MockEventLogService mocks eventlog.Service
type MockEventLogService struct {
	mock.Mock
}

func (m *MockEventLogService) Subscribe(bus event.Bus) error {
	return m.Called(bus).Error(0)
}

func (m *MockEventLogService) GetUserEvents(ctx context.Context, userID string, limit int) ([]repository.EventLogEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.EventLogEntry), args.Error(1)
}

func (m *MockEventLogService) ListEvents(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.EventLogEntry), args.Error(1)
}

func (m *MockEventLogService) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Error(1)
}

// MockDBPool mocks database.Pool
type MockDBPool struct {
	mock.Mock
}

func (m *MockDBPool) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDBPool) Close() {
	m.Called()
}
