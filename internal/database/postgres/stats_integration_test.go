package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
)

func TestDiningStatsRepository_ApplyMeal(t *testing.T) {
	repo := NewDiningStatsRepository(requirePool(t))
	ctx := context.Background()
	userID := uniqueUser(t)

	empty, err := repo.GetSnapshot(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.MealsCompleted)
	assert.NotNil(t, empty.CuisineCount)

	now := time.Now().UTC()
	snap, err := repo.ApplyMeal(ctx, &domain.MealRecord{
		UserID: userID, RequestID: "r1", IsHost: true, Cuisine: "sushi", City: "Seattle",
		IsLate: true, PartnerIDs: []string{"p1", "p2", userID}, DiningTime: now, CompletedAt: now,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, snap.MealsCompleted)
	assert.Equal(t, 1, snap.MealsHosted)
	assert.Equal(t, 1, snap.LateMeals)
	assert.Equal(t, 2, snap.UniqueDiningPartners)

	snap, err = repo.ApplyMeal(ctx, &domain.MealRecord{
		UserID: userID, RequestID: "r2", Cuisine: "sushi", City: "Seattle",
		IsWeekend: true, PartnerIDs: []string{"p2", "p3"}, DiningTime: now, CompletedAt: now.Add(time.Second),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, snap.MealsCompleted)
	assert.Equal(t, 1, snap.MealsHosted)
	assert.Equal(t, 2, snap.CuisineCount["sushi"])
	assert.Equal(t, []string{"Seattle"}, snap.CitiesVisited)
	assert.Equal(t, 3, snap.UniqueDiningPartners)

	meals, err := listMeals(ctx, repo.db, userID)
	require.NoError(t, err)
	require.Len(t, meals, 2)
	assert.Equal(t, "r1", meals[0].RequestID)
	assert.Equal(t, "sushi", meals[0].Cuisine)
}

func TestDiningStatsRepository_RebuildFromHistory(t *testing.T) {
	pool := requirePool(t)
	repo := NewDiningStatsRepository(pool)
	ctx := context.Background()
	userID := uniqueUser(t)
	now := time.Now().UTC()

	for i, cuisine := range []string{"pizza", "ramen", ""} {
		_, err := repo.ApplyMeal(ctx, &domain.MealRecord{
			UserID: userID, RequestID: string(rune('a' + i)), Cuisine: cuisine, City: "Austin",
			IsBreakfast: i == 0, PartnerIDs: []string{"friend"}, DiningTime: now, CompletedAt: now.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}
	want, err := repo.GetSnapshot(ctx, userID)
	require.NoError(t, err)

	changed, err := repo.RebuildFromHistory(ctx, userID)
	require.NoError(t, err)
	assert.False(t, changed, "counters already match the history")

	// simulate a partially applied meal
	_, err = pool.Exec(ctx, `UPDATE dining_stats SET meals_completed = 1 WHERE user_id = $1`, userID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `DELETE FROM dining_cuisine_counts WHERE user_id = $1`, userID)
	require.NoError(t, err)

	changed, err = repo.RebuildFromHistory(ctx, userID)
	require.NoError(t, err)
	assert.True(t, changed)

	stored, err := repo.GetSnapshot(ctx, userID)
	require.NoError(t, err)
	assert.True(t, want.Equal(stored))
	assert.Equal(t, 3, stored.MealsCompleted)
	assert.Equal(t, 1, stored.CuisineCount["ramen"])
	assert.Equal(t, 1, stored.UniqueDiningPartners)
}

func TestDiningStatsRepository_RebuildFromHistory_NoHistory(t *testing.T) {
	repo := NewDiningStatsRepository(requirePool(t))

	changed, err := repo.RebuildFromHistory(context.Background(), uniqueUser(t))
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestDiningStatsRepository_RebuildRacingApplyMeal(t *testing.T) {
	repo := NewDiningStatsRepository(requirePool(t))
	ctx := context.Background()
	userID := uniqueUser(t)
	now := time.Now().UTC()

	const meals = 20
	var wg sync.WaitGroup
	errs := make(chan error, meals*2)
	for i := 0; i < meals; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := repo.ApplyMeal(ctx, &domain.MealRecord{
				UserID: userID, RequestID: fmt.Sprintf("r%d", i), Cuisine: "pizza", City: "Austin",
				PartnerIDs: []string{fmt.Sprintf("p%d", i%3)}, DiningTime: now, CompletedAt: now.Add(time.Duration(i) * time.Millisecond),
			})
			errs <- err
		}(i)
		go func() {
			defer wg.Done()
			_, err := repo.RebuildFromHistory(ctx, userID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	history, err := listMeals(ctx, repo.db, userID)
	require.NoError(t, err)
	expected, _ := domain.SnapshotFromMeals(userID, history)

	stored, err := repo.GetSnapshot(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, meals, stored.MealsCompleted)
	assert.Equal(t, meals, stored.CuisineCount["pizza"])
	assert.True(t, expected.Equal(stored))
}
