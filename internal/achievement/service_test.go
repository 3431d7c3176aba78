package achievement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
)

type MockAchievementRepo struct {
	mock.Mock
}

func (m *MockAchievementRepo) GetUserAchievements(ctx context.Context, userID string) ([]domain.UserAchievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserAchievement), args.Error(1)
}

func (m *MockAchievementRepo) UpsertProgress(ctx context.Context, userID string, statuses []domain.AchievementStatus) error {
	args := m.Called(ctx, userID, statuses)
	return args.Error(0)
}

func (m *MockAchievementRepo) MarkUnlocked(ctx context.Context, userID, key string, progress, target int, at time.Time) (bool, error) {
	args := m.Called(ctx, userID, key, progress, target, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockAchievementRepo) SetDisplayed(ctx context.Context, userID, key string) error {
	args := m.Called(ctx, userID, key)
	return args.Error(0)
}

type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) GetSnapshot(ctx context.Context, userID string) (*domain.UserStatsSnapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserStatsSnapshot), args.Error(1)
}

func (m *MockStatsRepo) ApplyMeal(ctx context.Context, meal *domain.MealRecord) (*domain.UserStatsSnapshot, error) {
	args := m.Called(ctx, meal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserStatsSnapshot), args.Error(1)
}

func (m *MockStatsRepo) RebuildFromHistory(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func TestService_GetUserAchievements(t *testing.T) {
	repo := new(MockAchievementRepo)
	stats := new(MockStatsRepo)
	svc := NewService(NewEvaluator(MustDefault()), repo, stats)
	ctx := context.Background()

	unlockedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snapshot := domain.NewUserStatsSnapshot()
	snapshot.MealsCompleted = 2
	snapshot.CuisineCount["sushi"] = 2

	repo.On("GetUserAchievements", ctx, "user-1").Return([]domain.UserAchievement{
		{UserID: "user-1", AchievementKey: "first_bite", Progress: 1, Target: 1, UnlockedAt: &unlockedAt, IsDisplayed: true},
	}, nil)
	stats.On("GetSnapshot", ctx, "user-1").Return(snapshot, nil)

	views, err := svc.GetUserAchievements(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, views, 20)

	byKey := map[string]domain.UserAchievementView{}
	for _, v := range views {
		byKey[v.Key] = v
	}

	fb := byKey["first_bite"]
	assert.Equal(t, &unlockedAt, fb.UnlockedAt)
	assert.True(t, fb.IsDisplayed)
	assert.Equal(t, 2, fb.Progress)
	assert.Equal(t, 100, fb.ProgressPercent)

	sushi := byKey["sushi_sensei"]
	assert.Nil(t, sushi.UnlockedAt)
	assert.Equal(t, 2, sushi.Progress)
	assert.Equal(t, 40, sushi.ProgressPercent)
	assert.Equal(t, "Sushi Sensei", sushi.Name)

	repo.AssertExpectations(t)
	stats.AssertExpectations(t)
}

func TestService_GetUserAchievements_KeepsUnlockedProgress(t *testing.T) {
	repo := new(MockAchievementRepo)
	stats := new(MockStatsRepo)
	svc := NewService(NewEvaluator(MustDefault()), repo, stats)
	ctx := context.Background()

	unlockedAt := time.Now()
	repo.On("GetUserAchievements", ctx, "user-1").Return([]domain.UserAchievement{
		{AchievementKey: "regular", Progress: 10, Target: 10, UnlockedAt: &unlockedAt},
	}, nil)
	stats.On("GetSnapshot", ctx, "user-1").Return(domain.NewUserStatsSnapshot(), nil)

	views, err := svc.GetUserAchievements(ctx, "user-1")
	require.NoError(t, err)
	for _, v := range views {
		if v.Key == "regular" {
			assert.Equal(t, 10, v.Progress)
			assert.Equal(t, 100, v.ProgressPercent)
		}
	}
}

func TestService_GetUserAchievements_RepoError(t *testing.T) {
	repo := new(MockAchievementRepo)
	stats := new(MockStatsRepo)
	svc := NewService(NewEvaluator(MustDefault()), repo, stats)
	ctx := context.Background()

	repo.On("GetUserAchievements", ctx, "user-1").Return(nil, errors.New("connection refused"))

	_, err := svc.GetUserAchievements(ctx, "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	stats.AssertNotCalled(t, "GetSnapshot", mock.Anything, mock.Anything)
}

func TestService_SetDisplayed(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown key is rejected before storage", func(t *testing.T) {
		repo := new(MockAchievementRepo)
		svc := NewService(NewEvaluator(MustDefault()), repo, new(MockStatsRepo))

		err := svc.SetDisplayed(ctx, "user-1", "bogus")
		assert.ErrorIs(t, err, domain.ErrUnknownAchievement)
		repo.AssertNotCalled(t, "SetDisplayed", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not unlocked", func(t *testing.T) {
		repo := new(MockAchievementRepo)
		svc := NewService(NewEvaluator(MustDefault()), repo, new(MockStatsRepo))
		repo.On("SetDisplayed", ctx, "user-1", "regular").Return(domain.ErrAchievementNotUnlocked)

		err := svc.SetDisplayed(ctx, "user-1", "regular")
		assert.ErrorIs(t, err, domain.ErrAchievementNotUnlocked)
	})

	t.Run("clear selection", func(t *testing.T) {
		repo := new(MockAchievementRepo)
		svc := NewService(NewEvaluator(MustDefault()), repo, new(MockStatsRepo))
		repo.On("SetDisplayed", ctx, "user-1", "").Return(nil)

		assert.NoError(t, svc.SetDisplayed(ctx, "user-1", ""))
		repo.AssertExpectations(t)
	})
}

func TestService_Catalog(t *testing.T) {
	svc := NewService(NewEvaluator(MustDefault()), new(MockAchievementRepo), new(MockStatsRepo))
	assert.Len(t, svc.Catalog(), 20)
}
