package progression_bench

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/donalcheung/dine-together-sub000/internal/achievement"
	"github.com/donalcheung/dine-together-sub000/internal/database/memory"
	"github.com/donalcheung/dine-together-sub000/internal/domain"
	"github.com/donalcheung/dine-together-sub000/internal/level"
	"github.com/donalcheung/dine-together-sub000/internal/meal"
	"github.com/donalcheung/dine-together-sub000/internal/xp"
)

// Compare runs with: go test -bench . -count 10 ./benchmarks/... | benchstat

func newServices(b *testing.B) (xp.Service, meal.Service, *achievement.Evaluator) {
	b.Helper()
	store := memory.NewStore()
	catalog := achievement.MustDefault()
	evaluator := achievement.NewEvaluator(catalog)
	xpSvc := xp.NewService(store, store, nil, xp.DefaultCacheConfig())
	mealSvc := meal.NewService(xpSvc, evaluator, store, store, meal.NewClassifier(catalog, time.UTC), nil)
	return xpSvc, mealSvc, evaluator
}

// heavySnapshot is a long-time diner with every counter populated
func heavySnapshot() *domain.UserStatsSnapshot {
	s := domain.NewUserStatsSnapshot()
	s.MealsCompleted = 480
	s.MealsHosted = 120
	s.UniqueDiningPartners = 75
	s.BreakfastMeals = 40
	s.LateMeals = 60
	s.WeekendMeals = 150
	for i := 0; i < 40; i++ {
		s.CitiesVisited = append(s.CitiesVisited, fmt.Sprintf("City %02d", i))
	}
	for _, c := range []string{"italian", "japanese", "mexican", "chinese", "indian", "thai", "french"} {
		s.CuisineCount[c] = 12
	}
	return s
}

// BenchmarkCompleteMeal runs the full three-step workflow against the memory store.
func BenchmarkCompleteMeal(b *testing.B) {
	ctx := context.Background()
	xpSvc, mealSvc, _ := newServices(b)

	const users = 64
	for i := 0; i < users; i++ {
		if _, _, err := xpSvc.InitializeUser(ctx, fmt.Sprintf("user-%d", i)); err != nil {
			b.Fatalf("InitializeUser failed: %v", err)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := mealSvc.CompleteMeal(ctx, &domain.MealCompletion{
			UserID:            fmt.Sprintf("user-%d", i%users),
			RequestID:         fmt.Sprintf("req-%d", i),
			IsHost:            i%3 == 0,
			RestaurantName:    "Trattoria Roma",
			RestaurantAddress: "5 Via Appia, Rome, Italy",
			DiningTime:        "2025-03-08T20:15:00+01:00",
			PartnerIDs:        []string{fmt.Sprintf("user-%d", (i+1)%users)},
		})
		if err != nil {
			b.Fatalf("CompleteMeal failed: %v", err)
		}
	}
}

// BenchmarkEvaluateAll measures one pass of the whole catalog over a busy profile.
func BenchmarkEvaluateAll(b *testing.B) {
	_, _, evaluator := newServices(b)
	snapshot := heavySnapshot()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if statuses := evaluator.EvaluateAll(snapshot); len(statuses) == 0 {
			b.Fatal("expected statuses")
		}
	}
}

// BenchmarkGetSummary_Cached measures repeated summary reads served from the LRU.
func BenchmarkGetSummary_Cached(b *testing.B) {
	ctx := context.Background()
	xpSvc, _, _ := newServices(b)
	if _, _, err := xpSvc.InitializeUser(ctx, "reader"); err != nil {
		b.Fatalf("InitializeUser failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := xpSvc.GetSummary(ctx, "reader"); err != nil {
			b.Fatalf("GetSummary failed: %v", err)
		}
	}
}

// BenchmarkLevelForXP evaluates XP totals near the top of the int64 range.
func BenchmarkLevelForXP(b *testing.B) {
	top := level.XPRequiredForLevel(level.MaxLevel)
	for i := 0; i < b.N; i++ {
		_ = level.LevelForXP(top - int64(i%1000))
	}
}
