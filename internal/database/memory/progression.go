package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
	"github.com/donalcheung/dine-together-sub000/internal/level"
)

func (s *Store) CreateProgression(_ context.Context, welcome *domain.XPTransaction) (bool, error) {
	unlock := s.locks.Lock(welcome.UserID)
	defer unlock()

	st := s.state(welcome.UserID, true)
	if st.progression != nil {
		return false, nil
	}

	st.progression = &domain.Progression{
		UserID:       welcome.UserID,
		TotalXP:      welcome.Amount,
		CurrentLevel: level.LevelForXP(welcome.Amount),
		CreatedAt:    welcome.CreatedAt,
		UpdatedAt:    welcome.CreatedAt,
	}
	st.ledger = append(st.ledger, *welcome)
	return true, nil
}

func (s *Store) GetProgression(_ context.Context, userID string) (*domain.Progression, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	st := s.state(userID, false)
	if st == nil || st.progression == nil {
		return nil, nil
	}
	p := *st.progression
	return &p, nil
}

func (s *Store) ApplyXP(_ context.Context, txn *domain.XPTransaction) (int64, int64, error) {
	unlock := s.locks.Lock(txn.UserID)
	defer unlock()

	st := s.state(txn.UserID, false)
	if st == nil || st.progression == nil {
		return 0, 0, fmt.Errorf("%w: %s", domain.ErrUserNotFound, txn.UserID)
	}

	before := st.progression.TotalXP
	after := before + txn.Amount
	st.ledger = append(st.ledger, *txn)
	st.progression.TotalXP = after
	st.progression.CurrentLevel = level.LevelForXP(after)
	st.progression.UpdatedAt = s.now()
	return before, after, nil
}

func (s *Store) ListTransactions(_ context.Context, userID string, limit int) ([]domain.XPTransaction, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	out := []domain.XPTransaction{}
	st := s.state(userID, false)
	if st == nil {
		return out, nil
	}
	// newest first; ledger is append-only so reverse order is creation order
	for i := len(st.ledger) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, st.ledger[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) SumTransactions(_ context.Context, userID string) (int64, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	st := s.state(userID, false)
	if st == nil {
		return 0, nil
	}
	return sumLedger(st.ledger), nil
}

func sumLedger(ledger []domain.XPTransaction) int64 {
	var sum int64
	for _, t := range ledger {
		sum += t.Amount
	}
	return sum
}

func (s *Store) HasTransactionWithReason(_ context.Context, userID, reason string) (bool, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	st := s.state(userID, false)
	if st == nil {
		return false, nil
	}
	for _, t := range st.ledger {
		if t.Reason == reason {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ReconcileTotal(_ context.Context, userID string) (int64, int64, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	st := s.state(userID, false)
	if st == nil || st.progression == nil {
		return 0, 0, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}

	before := st.progression.TotalXP
	after := sumLedger(st.ledger)
	if before != after {
		st.progression.UpdatedAt = s.now()
	}
	st.progression.TotalXP = after
	st.progression.CurrentLevel = level.LevelForXP(after)
	return before, after, nil
}

func (s *Store) ListUserIDs(_ context.Context, afterID string, limit int) ([]string, error) {
	ids := s.userIDs()
	start := sort.SearchStrings(ids, afterID)
	if start < len(ids) && ids[start] == afterID {
		start++
	}
	ids = ids[start:]
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}
