package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
	"github.com/donalcheung/dine-together-sub000/internal/level"
	"github.com/donalcheung/dine-together-sub000/internal/repository"
)

// ProgressionRepository implements repository.Progression for PostgreSQL.
// total_xp is only ever changed by an atomic increment in the same transaction
// that inserts the ledger row.
type ProgressionRepository struct {
	db *pgxpool.Pool
}

var _ repository.Progression = (*ProgressionRepository)(nil)

// NewProgressionRepository creates a new ProgressionRepository
func NewProgressionRepository(db *pgxpool.Pool) *ProgressionRepository {
	return &ProgressionRepository{db: db}
}

const insertTransactionQuery = `
	INSERT INTO xp_transactions (id, user_id, amount, reason, related_request_id, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
`

func insertTransaction(ctx context.Context, q querier, txn *domain.XPTransaction) error {
	_, err := q.Exec(ctx, insertTransactionQuery,
		txn.ID, txn.UserID, txn.Amount, txn.Reason, txn.RelatedRequestID, txn.CreatedAt)
	if err != nil {
		return wrap(ErrMsgFailedToInsertTransaction, err)
	}
	return nil
}

// CreateProgression inserts the record and its welcome transaction together
func (r *ProgressionRepository) CreateProgression(ctx context.Context, welcome *domain.XPTransaction) (bool, error) {
	created := false
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO user_progression (user_id, total_xp, current_level, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)
			ON CONFLICT (user_id) DO NOTHING
		`, welcome.UserID, welcome.Amount, level.LevelForXP(welcome.Amount), welcome.CreatedAt)
		if err != nil {
			return wrap(ErrMsgFailedToCreateProgression, err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		created = true
		return insertTransaction(ctx, tx, welcome)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// GetProgression returns nil, nil when the user has no record
func (r *ProgressionRepository) GetProgression(ctx context.Context, userID string) (*domain.Progression, error) {
	var p domain.Progression
	err := r.db.QueryRow(ctx, `
		SELECT user_id, total_xp, current_level, created_at, updated_at
		FROM user_progression
		WHERE user_id = $1
	`, userID).Scan(&p.UserID, &p.TotalXP, &p.CurrentLevel, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(ErrMsgFailedToGetProgression, err)
	}
	return &p, nil
}

// ApplyXP increments total_xp with UPDATE ... RETURNING so concurrent awards never lose updates
func (r *ProgressionRepository) ApplyXP(ctx context.Context, txn *domain.XPTransaction) (int64, int64, error) {
	var after int64
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			UPDATE user_progression
			SET total_xp = total_xp + $2, updated_at = NOW()
			WHERE user_id = $1
			RETURNING total_xp
		`, txn.UserID, txn.Amount).Scan(&after)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", domain.ErrUserNotFound, txn.UserID)
		}
		if err != nil {
			return wrap(ErrMsgFailedToIncrementTotal, err)
		}

		if _, err := tx.Exec(ctx, `UPDATE user_progression SET current_level = $2 WHERE user_id = $1`,
			txn.UserID, level.LevelForXP(after)); err != nil {
			return wrap(ErrMsgFailedToUpdateLevel, err)
		}

		return insertTransaction(ctx, tx, txn)
	})
	if err != nil {
		return 0, 0, err
	}
	return after - txn.Amount, after, nil
}

// ListTransactions returns the newest transactions first
func (r *ProgressionRepository) ListTransactions(ctx context.Context, userID string, limit int) ([]domain.XPTransaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, amount, reason, related_request_id, created_at
		FROM xp_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, wrap(ErrMsgFailedToQueryTransactions, err)
	}
	defer rows.Close()

	txns := []domain.XPTransaction{}
	for rows.Next() {
		var t domain.XPTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Reason, &t.RelatedRequestID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanTransaction, err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRowIteration, err)
	}
	return txns, nil
}

func (r *ProgressionRepository) SumTransactions(ctx context.Context, userID string) (int64, error) {
	var sum int64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM xp_transactions WHERE user_id = $1`, userID).Scan(&sum)
	if err != nil {
		return 0, wrap(ErrMsgFailedToSumTransactions, err)
	}
	return sum, nil
}

func (r *ProgressionRepository) HasTransactionWithReason(ctx context.Context, userID, reason string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM xp_transactions WHERE user_id = $1 AND reason = $2)
	`, userID, reason).Scan(&exists)
	if err != nil {
		return false, wrap(ErrMsgFailedToCheckTransaction, err)
	}
	return exists, nil
}

// ReconcileTotal locks the record and rewrites total_xp from the ledger sum
func (r *ProgressionRepository) ReconcileTotal(ctx context.Context, userID string) (int64, int64, error) {
	var before, after int64
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `SELECT total_xp FROM user_progression WHERE user_id = $1 FOR UPDATE`, userID).Scan(&before)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
		}
		if err != nil {
			return wrap(ErrMsgFailedToReconcileTotal, err)
		}

		if err := tx.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM xp_transactions WHERE user_id = $1`, userID).Scan(&after); err != nil {
			return wrap(ErrMsgFailedToSumTransactions, err)
		}

		// current_level is refreshed even when the total already matches
		_, err = tx.Exec(ctx, `
			UPDATE user_progression
			SET total_xp = $2, current_level = $3, updated_at = CASE WHEN total_xp <> $2 THEN NOW() ELSE updated_at END
			WHERE user_id = $1
		`, userID, after, level.LevelForXP(after))
		if err != nil {
			return wrap(ErrMsgFailedToReconcileTotal, err)
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return before, after, nil
}

// ListUserIDs pages through users in ascending id order
func (r *ProgressionRepository) ListUserIDs(ctx context.Context, afterID string, limit int) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id FROM user_progression
		WHERE user_id > $1
		ORDER BY user_id
		LIMIT $2
	`, afterID, limit)
	if err != nil {
		return nil, wrap(ErrMsgFailedToQueryUserIDs, err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRowIteration, err)
	}
	return ids, nil
}
