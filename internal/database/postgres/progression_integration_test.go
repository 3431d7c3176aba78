package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
)

func newTxn(userID string, amount int64, reason string) *domain.XPTransaction {
	return &domain.XPTransaction{
		ID:        uuid.New(),
		UserID:    userID,
		Amount:    amount,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
}

func TestProgressionRepository_CreateOnce(t *testing.T) {
	repo := NewProgressionRepository(requirePool(t))
	ctx := context.Background()
	userID := uniqueUser(t)

	created, err := repo.CreateProgression(ctx, newTxn(userID, domain.WelcomeBonusXP, domain.ReasonWelcomeBonus))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateProgression(ctx, newTxn(userID, domain.WelcomeBonusXP, domain.ReasonWelcomeBonus))
	require.NoError(t, err)
	assert.False(t, created)

	prog, err := repo.GetProgression(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, prog)
	assert.Equal(t, domain.WelcomeBonusXP, prog.TotalXP)

	sum, err := repo.SumTransactions(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.WelcomeBonusXP, sum, "welcome bonus is written exactly once")
}

func TestProgressionRepository_GetMissing(t *testing.T) {
	repo := NewProgressionRepository(requirePool(t))

	prog, err := repo.GetProgression(context.Background(), uniqueUser(t))
	require.NoError(t, err)
	assert.Nil(t, prog)
}

func TestProgressionRepository_ApplyXP(t *testing.T) {
	repo := NewProgressionRepository(requirePool(t))
	ctx := context.Background()
	userID := uniqueUser(t)

	_, err := repo.CreateProgression(ctx, newTxn(userID, 10, domain.ReasonWelcomeBonus))
	require.NoError(t, err)

	before, after, err := repo.ApplyXP(ctx, newTxn(userID, 45, "Completed a meal as host"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), before)
	assert.Equal(t, int64(55), after)

	prog, err := repo.GetProgression(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, prog.CurrentLevel)

	txns, err := repo.ListTransactions(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	has, err := repo.HasTransactionWithReason(ctx, userID, "Completed a meal as host")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestProgressionRepository_ApplyXPUnknownUser(t *testing.T) {
	repo := NewProgressionRepository(requirePool(t))
	ctx := context.Background()
	userID := uniqueUser(t)

	_, _, err := repo.ApplyXP(ctx, newTxn(userID, 5, "x"))
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	sum, err := repo.SumTransactions(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, sum, "no ledger row without a progression record")
}

func TestProgressionRepository_ConcurrentAwardsKeepLedgerInvariant(t *testing.T) {
	repo := NewProgressionRepository(requirePool(t))
	ctx := context.Background()
	userID := uniqueUser(t)

	_, err := repo.CreateProgression(ctx, newTxn(userID, 10, domain.ReasonWelcomeBonus))
	require.NoError(t, err)

	const workers = 25
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failures int
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := repo.ApplyXP(ctx, newTxn(userID, 7, "Sent a message")); err != nil {
				mu.Lock()
				failures++
				mu.Unlock()
				if !errors.Is(err, domain.ErrConcurrentUpdate) {
					t.Errorf("unexpected error: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	prog, err := repo.GetProgression(ctx, userID)
	require.NoError(t, err)
	sum, err := repo.SumTransactions(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, sum, prog.TotalXP)
	assert.Equal(t, int64(10+7*(workers-failures)), prog.TotalXP)
}

func TestProgressionRepository_ReconcileTotal(t *testing.T) {
	pool := requirePool(t)
	repo := NewProgressionRepository(pool)
	ctx := context.Background()
	userID := uniqueUser(t)

	_, err := repo.CreateProgression(ctx, newTxn(userID, 10, domain.ReasonWelcomeBonus))
	require.NoError(t, err)
	_, _, err = repo.ApplyXP(ctx, newTxn(userID, 40, "bonus"))
	require.NoError(t, err)

	// simulate drift
	_, err = pool.Exec(ctx, `UPDATE user_progression SET total_xp = 999 WHERE user_id = $1`, userID)
	require.NoError(t, err)

	before, after, err := repo.ReconcileTotal(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(999), before)
	assert.Equal(t, int64(50), after)

	prog, err := repo.GetProgression(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), prog.TotalXP)
	assert.Equal(t, 2, prog.CurrentLevel)

	_, _, err = repo.ReconcileTotal(ctx, uniqueUser(t))
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestProgressionRepository_ListUserIDs(t *testing.T) {
	repo := NewProgressionRepository(requirePool(t))
	ctx := context.Background()
	prefix := uniqueUser(t)

	for _, suffix := range []string{"-a", "-b", "-c"} {
		_, err := repo.CreateProgression(ctx, newTxn(prefix+suffix, 10, domain.ReasonWelcomeBonus))
		require.NoError(t, err)
	}

	ids, err := repo.ListUserIDs(ctx, prefix+"-a", 2)
	require.NoError(t, err)
	require.NotEmpty(t, ids)
	assert.Equal(t, prefix+"-b", ids[0])
}
