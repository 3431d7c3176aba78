package repository

import (
	"context"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
)

// Progression defines persistence for progression records and the XP ledger.
// Implementations must keep sum(ledger amounts) == total_xp for every user.
type Progression interface {
	// CreateProgression creates the record and writes the welcome transaction in one unit.
	// Returns false without writing anything when the record already exists.
	CreateProgression(ctx context.Context, welcome *domain.XPTransaction) (bool, error)

	// GetProgression returns nil, nil when the user has no record
	GetProgression(ctx context.Context, userID string) (*domain.Progression, error)

	// ApplyXP appends the transaction and atomically increments total_xp.
	// Returns the totals before and after. Nothing is written on error.
	// Returns domain.ErrUserNotFound when no record exists and
	// domain.ErrConcurrentUpdate when the storage aborted on contention.
	ApplyXP(ctx context.Context, txn *domain.XPTransaction) (before, after int64, err error)

	ListTransactions(ctx context.Context, userID string, limit int) ([]domain.XPTransaction, error)
	SumTransactions(ctx context.Context, userID string) (int64, error)
	HasTransactionWithReason(ctx context.Context, userID, reason string) (bool, error)

	// ReconcileTotal sets total_xp (and the cached level) to the ledger sum
	ReconcileTotal(ctx context.Context, userID string) (before, after int64, err error)

	// ListUserIDs pages through user ids in ascending order, starting after afterID
	ListUserIDs(ctx context.Context, afterID string, limit int) ([]string, error)
}
