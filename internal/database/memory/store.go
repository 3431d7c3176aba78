// Package memory keeps every repository port in process memory.
// Each user's state is guarded by a per-user lock so read-modify-write
// sequences on one user are serialized while different users proceed in parallel.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/donalcheung/dine-together-sub000/internal/concurrency"
	"github.com/donalcheung/dine-together-sub000/internal/domain"
	"github.com/donalcheung/dine-together-sub000/internal/repository"
)

type userState struct {
	progression  *domain.Progression
	ledger       []domain.XPTransaction
	achievements map[string]*domain.UserAchievement
	stats        *domain.UserStatsSnapshot
	partners     map[string]struct{}
	meals        []domain.MealRecord
}

func newUserState() *userState {
	return &userState{
		achievements: make(map[string]*domain.UserAchievement),
		stats:        domain.NewUserStatsSnapshot(),
		partners:     make(map[string]struct{}),
	}
}

// Store implements the progression, achievement, dining stats and event log ports
type Store struct {
	mu    sync.RWMutex
	users map[string]*userState
	locks *concurrency.LockManager

	eventsMu sync.RWMutex
	events   []repository.EventLogEntry
	nextID   int64

	now func() time.Time
}

var (
	_ repository.Progression = (*Store)(nil)
	_ repository.Achievement = (*Store)(nil)
	_ repository.DiningStats = (*Store)(nil)
	_ repository.EventLog    = (*Store)(nil)
)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users: make(map[string]*userState),
		locks: concurrency.NewLockManager(),
		now:   time.Now,
	}
}

// state returns the user's state, creating it when create is set.
// Callers must hold the user's lock before touching the returned state.
func (s *Store) state(userID string, create bool) *userState {
	s.mu.RLock()
	st, ok := s.users[userID]
	s.mu.RUnlock()
	if ok || !create {
		return st
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok = s.users[userID]; !ok {
		st = newUserState()
		s.users[userID] = st
	}
	return st
}

func (s *Store) userIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.users))
	for id, st := range s.users {
		if st.progression != nil {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
