package achievement

import "github.com/donalcheung/dine-together-sub000/internal/domain"

// Metric names referenced by the "metric" field of catalog entries
const (
	MetricMealsCompleted   = "meals_completed"
	MetricMealsHosted      = "meals_hosted"
	MetricUniquePartners   = "unique_partners"
	MetricCitiesVisited    = "cities_visited"
	MetricDistinctCuisines = "distinct_cuisines"
	MetricBreakfastMeals   = "breakfast_meals"
	MetricLateMeals        = "late_meals"
	MetricWeekendMeals     = "weekend_meals"
	MetricCuisine          = "cuisine"
	MetricWellRounded      = "well_rounded"
)

type progressFunc func(s *domain.UserStatsSnapshot, a *Achievement) int

// unlockFunc decides the unlock for composite metrics. Nil means progress >= target.
type unlockFunc func(s *domain.UserStatsSnapshot, a *Achievement) bool

type metric struct {
	progress progressFunc
	unlocked unlockFunc
	// needsCuisine entries must name a cuisine from the keyword table
	needsCuisine bool
}

var metrics = map[string]metric{
	MetricMealsCompleted: {progress: func(s *domain.UserStatsSnapshot, _ *Achievement) int {
		return s.MealsCompleted
	}},
	MetricMealsHosted: {progress: func(s *domain.UserStatsSnapshot, _ *Achievement) int {
		return s.MealsHosted
	}},
	MetricUniquePartners: {progress: func(s *domain.UserStatsSnapshot, _ *Achievement) int {
		return s.UniqueDiningPartners
	}},
	MetricCitiesVisited: {progress: func(s *domain.UserStatsSnapshot, _ *Achievement) int {
		return len(s.CitiesVisited)
	}},
	MetricDistinctCuisines: {progress: func(s *domain.UserStatsSnapshot, _ *Achievement) int {
		return s.DistinctCuisines()
	}},
	MetricBreakfastMeals: {progress: func(s *domain.UserStatsSnapshot, _ *Achievement) int {
		return s.BreakfastMeals
	}},
	MetricLateMeals: {progress: func(s *domain.UserStatsSnapshot, _ *Achievement) int {
		return s.LateMeals
	}},
	MetricWeekendMeals: {progress: func(s *domain.UserStatsSnapshot, _ *Achievement) int {
		return s.WeekendMeals
	}},
	MetricCuisine: {
		progress: func(s *domain.UserStatsSnapshot, a *Achievement) int {
			return s.CuisineCount[a.Cuisine]
		},
		needsCuisine: true,
	},
	MetricWellRounded: {
		progress: wellRoundedProgress,
		unlocked: func(s *domain.UserStatsSnapshot, _ *Achievement) bool {
			return s.MealsHosted > 0 && s.BreakfastMeals > 0 && s.LateMeals > 0 && s.WeekendMeals > 0
		},
	},
}

// wellRoundedProgress counts how many of hosting, breakfast, late and weekend dining
// the user has done at least once
func wellRoundedProgress(s *domain.UserStatsSnapshot, _ *Achievement) int {
	n := 0
	for _, c := range []int{s.MealsHosted, s.BreakfastMeals, s.LateMeals, s.WeekendMeals} {
		if c > 0 {
			n++
		}
	}
	return n
}

// KnownMetrics lists the metric names a catalog entry may use
func KnownMetrics() []string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	return names
}
