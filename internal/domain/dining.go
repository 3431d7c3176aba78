package domain

import (
	"fmt"
	"slices"
	"time"
)

// Meal roles
const (
	RoleHost  = "host"
	RoleGuest = "guest"
)

// UserStatsSnapshot is the aggregate view of a user's dining history fed to the evaluator.
// Build it with NewUserStatsSnapshot so collections are never nil.
type UserStatsSnapshot struct {
	MealsCompleted       int            `json:"meals_completed"`
	MealsHosted          int            `json:"meals_hosted"`
	UniqueDiningPartners int            `json:"unique_dining_partners"`
	CitiesVisited        []string       `json:"cities_visited"`
	CuisineCount         map[string]int `json:"cuisine_count"`
	BreakfastMeals       int            `json:"breakfast_meals"`
	LateMeals            int            `json:"late_meals"`
	WeekendMeals         int            `json:"weekend_meals"`
}

// NewUserStatsSnapshot returns an empty snapshot with initialized collections
func NewUserStatsSnapshot() *UserStatsSnapshot {
	return &UserStatsSnapshot{
		CitiesVisited: []string{},
		CuisineCount:  map[string]int{},
	}
}

// Normalize fills nil collections and keeps the city set sorted and unique
func (s *UserStatsSnapshot) Normalize() {
	if s.CuisineCount == nil {
		s.CuisineCount = map[string]int{}
	}
	if s.CitiesVisited == nil {
		s.CitiesVisited = []string{}
	}
	slices.Sort(s.CitiesVisited)
	s.CitiesVisited = slices.Compact(s.CitiesVisited)
}

// DistinctCuisines counts cuisines eaten at least once
func (s *UserStatsSnapshot) DistinctCuisines() int {
	n := 0
	for _, c := range s.CuisineCount {
		if c > 0 {
			n++
		}
	}
	return n
}

// HasCity reports whether the city is already in the visited set
func (s *UserStatsSnapshot) HasCity(city string) bool {
	_, found := slices.BinarySearch(s.CitiesVisited, city)
	return found
}

// AddCity inserts a city keeping the set sorted. Returns false if already present.
func (s *UserStatsSnapshot) AddCity(city string) bool {
	i, found := slices.BinarySearch(s.CitiesVisited, city)
	if found {
		return false
	}
	s.CitiesVisited = slices.Insert(s.CitiesVisited, i, city)
	return true
}

// Validate checks the snapshot invariants
func (s *UserStatsSnapshot) Validate() error {
	counters := map[string]int{
		"meals_completed":        s.MealsCompleted,
		"meals_hosted":           s.MealsHosted,
		"unique_dining_partners": s.UniqueDiningPartners,
		"breakfast_meals":        s.BreakfastMeals,
		"late_meals":             s.LateMeals,
		"weekend_meals":          s.WeekendMeals,
	}
	for name, v := range counters {
		if v < 0 {
			return fmt.Errorf("%w: %s is negative", ErrInvalidStats, name)
		}
	}
	for cuisine, v := range s.CuisineCount {
		if v < 0 {
			return fmt.Errorf("%w: cuisine %s count is negative", ErrInvalidStats, cuisine)
		}
	}
	if s.MealsHosted > s.MealsCompleted {
		return fmt.Errorf("%w: meals_hosted %d exceeds meals_completed %d", ErrInvalidStats, s.MealsHosted, s.MealsCompleted)
	}
	return nil
}

// Clone returns a deep copy
func (s *UserStatsSnapshot) Clone() *UserStatsSnapshot {
	c := *s
	c.CitiesVisited = slices.Clone(s.CitiesVisited)
	if c.CitiesVisited == nil {
		c.CitiesVisited = []string{}
	}
	c.CuisineCount = make(map[string]int, len(s.CuisineCount))
	for k, v := range s.CuisineCount {
		c.CuisineCount[k] = v
	}
	return &c
}

// MealCompletion is the input handed over by the meal/request subsystem
type MealCompletion struct {
	UserID            string   `json:"user_id" validate:"required,max=100"`
	RequestID         string   `json:"request_id" validate:"required,max=100"`
	IsHost            bool     `json:"is_host"`
	RestaurantName    string   `json:"restaurant_name" validate:"max=200"`
	RestaurantAddress string   `json:"restaurant_address" validate:"max=500"`
	DiningTime        string   `json:"dining_time" validate:"required"`
	Description       string   `json:"description,omitempty" validate:"max=2000"`
	PartnerIDs        []string `json:"partner_ids,omitempty" validate:"max=50,dive,required,max=100"`
}

// MealRecord is a classified, completed meal kept as the reconciliation source
type MealRecord struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	RequestID   string    `json:"request_id"`
	IsHost      bool      `json:"is_host"`
	Cuisine     string    `json:"cuisine,omitempty"`
	City        string    `json:"city,omitempty"`
	IsBreakfast bool      `json:"is_breakfast"`
	IsLate      bool      `json:"is_late"`
	IsWeekend   bool      `json:"is_weekend"`
	PartnerIDs  []string  `json:"partner_ids,omitempty"`
	DiningTime  time.Time `json:"dining_time"`
	CompletedAt time.Time `json:"completed_at"`
}

// MealCompletionResult is returned to the UI for celebration.
// LevelUp reflects the base award only; Overall spans every award made by the workflow.
type MealCompletionResult struct {
	LevelUp       *LevelUpResult `json:"level_up,omitempty"`
	NewlyUnlocked []string       `json:"newly_unlocked"`
	Overall       *LevelUpResult `json:"overall,omitempty"`
	FailedSteps   []string       `json:"failed_steps,omitempty"`
}

// ApplyMeal adds the increments of one meal. newPartners is the number of
// partner ids the user had not dined with before.
func (s *UserStatsSnapshot) ApplyMeal(m *MealRecord, newPartners int) {
	s.Normalize()
	s.MealsCompleted++
	if m.IsHost {
		s.MealsHosted++
	}
	if m.IsBreakfast {
		s.BreakfastMeals++
	}
	if m.IsLate {
		s.LateMeals++
	}
	if m.IsWeekend {
		s.WeekendMeals++
	}
	if m.Cuisine != "" {
		s.CuisineCount[m.Cuisine]++
	}
	if m.City != "" {
		s.AddCity(m.City)
	}
	s.UniqueDiningPartners += newPartners
}

// SnapshotFromMeals rebuilds a user's counters from the meal history.
// It also returns the sorted set of distinct partner ids.
func SnapshotFromMeals(userID string, meals []MealRecord) (*UserStatsSnapshot, []string) {
	s := NewUserStatsSnapshot()
	seen := make(map[string]struct{})
	for i := range meals {
		fresh := 0
		for _, p := range meals[i].PartnerIDs {
			if p == "" || p == userID {
				continue
			}
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				fresh++
			}
		}
		s.ApplyMeal(&meals[i], fresh)
	}

	partners := make([]string, 0, len(seen))
	for p := range seen {
		partners = append(partners, p)
	}
	slices.Sort(partners)
	return s, partners
}

// Equal reports whether two snapshots hold the same counters
func (s *UserStatsSnapshot) Equal(o *UserStatsSnapshot) bool {
	if s.MealsCompleted != o.MealsCompleted || s.MealsHosted != o.MealsHosted ||
		s.UniqueDiningPartners != o.UniqueDiningPartners || s.BreakfastMeals != o.BreakfastMeals ||
		s.LateMeals != o.LateMeals || s.WeekendMeals != o.WeekendMeals {
		return false
	}
	if !slices.Equal(s.CitiesVisited, o.CitiesVisited) {
		return false
	}
	for k, v := range s.CuisineCount {
		if o.CuisineCount[k] != v {
			return false
		}
	}
	for k, v := range o.CuisineCount {
		if s.CuisineCount[k] != v {
			return false
		}
	}
	return true
}
