package postgres

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
)

func TestAchievementRepository_UpsertAndUnlock(t *testing.T) {
	repo := NewAchievementRepository(requirePool(t))
	ctx := context.Background()
	userID := uniqueUser(t)

	require.NoError(t, repo.UpsertProgress(ctx, userID, []domain.AchievementStatus{
		{Key: "first_bite", Progress: 1, Target: 1, IsUnlocked: true},
		{Key: "regular", Progress: 1, Target: 10},
	}))

	unlocked, err := repo.MarkUnlocked(ctx, userID, "first_bite", 1, 1, time.Now())
	require.NoError(t, err)
	assert.True(t, unlocked)

	unlocked, err = repo.MarkUnlocked(ctx, userID, "first_bite", 2, 1, time.Now())
	require.NoError(t, err)
	assert.False(t, unlocked, "unlocked_at is only set once")

	records, err := repo.GetUserAchievements(ctx, userID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "first_bite", records[0].AchievementKey)
	assert.True(t, records[0].IsUnlocked())
	assert.False(t, records[1].IsUnlocked())

	// progress never regresses on an unlocked record
	require.NoError(t, repo.UpsertProgress(ctx, userID, []domain.AchievementStatus{{Key: "first_bite", Progress: 0, Target: 1}}))
	records, err = repo.GetUserAchievements(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, records[0].Progress)
}

func TestAchievementRepository_MarkUnlockedRace(t *testing.T) {
	repo := NewAchievementRepository(requirePool(t))
	ctx := context.Background()
	userID := uniqueUser(t)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.MarkUnlocked(ctx, userID, "night_owl", 3, 3, time.Now())
			if err == nil && ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestAchievementRepository_SetDisplayed(t *testing.T) {
	repo := NewAchievementRepository(requirePool(t))
	ctx := context.Background()
	userID := uniqueUser(t)

	for _, key := range []string{"first_bite", "early_bird"} {
		_, err := repo.MarkUnlocked(ctx, userID, key, 3, 3, time.Now())
		require.NoError(t, err)
	}
	require.NoError(t, repo.UpsertProgress(ctx, userID, []domain.AchievementStatus{{Key: "regular", Progress: 1, Target: 10}}))

	require.NoError(t, repo.SetDisplayed(ctx, userID, "first_bite"))
	require.NoError(t, repo.SetDisplayed(ctx, userID, "early_bird"))

	err := repo.SetDisplayed(ctx, userID, "regular")
	assert.ErrorIs(t, err, domain.ErrAchievementNotUnlocked)
	err = repo.SetDisplayed(ctx, userID, "sushi_sensei")
	assert.ErrorIs(t, err, domain.ErrAchievementNotUnlocked)

	records, err := repo.GetUserAchievements(ctx, userID)
	require.NoError(t, err)
	displayed := 0
	for _, r := range records {
		if r.IsDisplayed {
			displayed++
			assert.Equal(t, "early_bird", r.AchievementKey)
		}
	}
	assert.Equal(t, 1, displayed)

	require.NoError(t, repo.SetDisplayed(ctx, userID, ""))
	records, err = repo.GetUserAchievements(ctx, userID)
	require.NoError(t, err)
	for _, r := range records {
		assert.False(t, r.IsDisplayed)
	}
}
