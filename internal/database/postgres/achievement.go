package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
	"github.com/donalcheung/dine-together-sub000/internal/repository"
)

// AchievementRepository implements repository.Achievement for PostgreSQL
type AchievementRepository struct {
	db *pgxpool.Pool
}

var _ repository.Achievement = (*AchievementRepository)(nil)

// NewAchievementRepository creates a new AchievementRepository
func NewAchievementRepository(db *pgxpool.Pool) *AchievementRepository {
	return &AchievementRepository{db: db}
}

func (r *AchievementRepository) GetUserAchievements(ctx context.Context, userID string) ([]domain.UserAchievement, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, achievement_key, progress, target, unlocked_at, is_displayed, updated_at
		FROM user_achievements
		WHERE user_id = $1
		ORDER BY achievement_key
	`, userID)
	if err != nil {
		return nil, wrap(ErrMsgFailedToQueryAchievements, err)
	}
	defer rows.Close()

	records := []domain.UserAchievement{}
	for rows.Next() {
		var a domain.UserAchievement
		if err := rows.Scan(&a.UserID, &a.AchievementKey, &a.Progress, &a.Target, &a.UnlockedAt, &a.IsDisplayed, &a.UpdatedAt); err != nil {
			return nil, wrap(ErrMsgFailedToQueryAchievements, err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRowIteration, err)
	}
	return records, nil
}

// UpsertProgress writes every status in one batch. Unlocked rows keep their highest progress.
func (r *AchievementRepository) UpsertProgress(ctx context.Context, userID string, statuses []domain.AchievementStatus) error {
	if len(statuses) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, s := range statuses {
		batch.Queue(`
			INSERT INTO user_achievements (user_id, achievement_key, progress, target, updated_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (user_id, achievement_key) DO UPDATE
			SET progress = CASE
					WHEN user_achievements.unlocked_at IS NOT NULL
					THEN GREATEST(user_achievements.progress, EXCLUDED.progress)
					ELSE EXCLUDED.progress
				END,
				target = EXCLUDED.target,
				updated_at = NOW()
			WHERE user_achievements.progress IS DISTINCT FROM EXCLUDED.progress
				OR user_achievements.target IS DISTINCT FROM EXCLUDED.target
		`, userID, s.Key, s.Progress, s.Target)
	}

	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return wrap(ErrMsgFailedToUpsertProgress, err)
	}
	return nil
}

// MarkUnlocked relies on the conditional upsert so only one caller ever sees true
func (r *AchievementRepository) MarkUnlocked(ctx context.Context, userID, key string, progress, target int, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO user_achievements (user_id, achievement_key, progress, target, unlocked_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id, achievement_key) DO UPDATE
		SET unlocked_at = EXCLUDED.unlocked_at,
			progress = GREATEST(user_achievements.progress, EXCLUDED.progress),
			target = EXCLUDED.target,
			updated_at = NOW()
		WHERE user_achievements.unlocked_at IS NULL
	`, userID, key, progress, target, at)
	if err != nil {
		return false, wrap(ErrMsgFailedToMarkUnlocked, err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetDisplayed clears every other flag before setting the new one so the partial unique index holds
func (r *AchievementRepository) SetDisplayed(ctx context.Context, userID, key string) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if key != "" {
			var unlocked bool
			err := tx.QueryRow(ctx, `
				SELECT unlocked_at IS NOT NULL
				FROM user_achievements
				WHERE user_id = $1 AND achievement_key = $2
				FOR UPDATE
			`, userID, key).Scan(&unlocked)
			if errors.Is(err, pgx.ErrNoRows) || (err == nil && !unlocked) {
				return fmt.Errorf("%w: %s", domain.ErrAchievementNotUnlocked, key)
			}
			if err != nil {
				return wrap(ErrMsgFailedToCheckUnlocked, err)
			}
		}

		if _, err := tx.Exec(ctx, `
			UPDATE user_achievements
			SET is_displayed = FALSE, updated_at = NOW()
			WHERE user_id = $1 AND is_displayed AND achievement_key <> $2
		`, userID, key); err != nil {
			return wrap(ErrMsgFailedToClearDisplayed, err)
		}

		if key == "" {
			return nil
		}

		_, err := tx.Exec(ctx, `
			UPDATE user_achievements
			SET is_displayed = TRUE, updated_at = NOW()
			WHERE user_id = $1 AND achievement_key = $2 AND NOT is_displayed
		`, userID, key)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == PgErrorCodeUniqueViolation {
			// another request displayed a different achievement first
			return fmt.Errorf("%w: %s", domain.ErrConcurrentUpdate, pgErr.Message)
		}
		if err != nil {
			return wrap(ErrMsgFailedToSetDisplayed, err)
		}
		return nil
	})
}
