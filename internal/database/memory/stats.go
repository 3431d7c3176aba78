package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
)

func (s *Store) GetSnapshot(_ context.Context, userID string) (*domain.UserStatsSnapshot, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	st := s.state(userID, false)
	if st == nil {
		return domain.NewUserStatsSnapshot(), nil
	}
	return st.stats.Clone(), nil
}

func (s *Store) ApplyMeal(_ context.Context, meal *domain.MealRecord) (*domain.UserStatsSnapshot, error) {
	if meal.ID == "" {
		meal.ID = uuid.NewString()
	}

	unlock := s.locks.Lock(meal.UserID)
	defer unlock()

	st := s.state(meal.UserID, true)

	fresh := 0
	for _, p := range meal.PartnerIDs {
		if p == "" || p == meal.UserID {
			continue
		}
		if _, seen := st.partners[p]; !seen {
			st.partners[p] = struct{}{}
			fresh++
		}
	}

	record := *meal
	record.PartnerIDs = slices.Clone(meal.PartnerIDs)
	st.meals = append(st.meals, record)
	st.stats.ApplyMeal(meal, fresh)

	return st.stats.Clone(), nil
}

// RebuildFromHistory runs under the user's lock, the same lock ApplyMeal takes
func (s *Store) RebuildFromHistory(_ context.Context, userID string) (bool, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	st := s.state(userID, false)
	if st == nil {
		return false, nil
	}

	rebuilt, partners := domain.SnapshotFromMeals(userID, st.meals)
	if rebuilt.Equal(st.stats) && st.hasPartners(partners) {
		return false, nil
	}
	if err := st.replace(userID, rebuilt, partners); err != nil {
		return false, err
	}
	return true, nil
}

// ReplaceSnapshot overwrites every counter and the partner set for the user.
// It stages state directly, bypassing the meal history.
func (s *Store) ReplaceSnapshot(_ context.Context, userID string, snapshot *domain.UserStatsSnapshot, partnerIDs []string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	return s.state(userID, true).replace(userID, snapshot, partnerIDs)
}

// hasPartners reports whether the partner set is exactly ids
func (st *userState) hasPartners(ids []string) bool {
	if len(ids) != len(st.partners) {
		return false
	}
	for _, p := range ids {
		if _, ok := st.partners[p]; !ok {
			return false
		}
	}
	return true
}

// replace requires the user's lock
func (st *userState) replace(userID string, snapshot *domain.UserStatsSnapshot, partnerIDs []string) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}
	st.stats = snapshot.Clone()
	st.stats.Normalize()
	st.partners = make(map[string]struct{}, len(partnerIDs))
	for _, p := range partnerIDs {
		if p != "" && p != userID {
			st.partners[p] = struct{}{}
		}
	}
	return nil
}
