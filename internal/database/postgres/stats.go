package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
	"github.com/donalcheung/dine-together-sub000/internal/repository"
)

// DiningStatsRepository implements repository.DiningStats for PostgreSQL.
// Counters live in dining_stats; sets live in their own tables so inserts are idempotent.
type DiningStatsRepository struct {
	db *pgxpool.Pool
}

var _ repository.DiningStats = (*DiningStatsRepository)(nil)

// NewDiningStatsRepository creates a new DiningStatsRepository
func NewDiningStatsRepository(db *pgxpool.Pool) *DiningStatsRepository {
	return &DiningStatsRepository{db: db}
}

func (r *DiningStatsRepository) GetSnapshot(ctx context.Context, userID string) (*domain.UserStatsSnapshot, error) {
	return loadSnapshot(ctx, r.db, userID)
}

func loadSnapshot(ctx context.Context, q querier, userID string) (*domain.UserStatsSnapshot, error) {
	s := domain.NewUserStatsSnapshot()

	err := q.QueryRow(ctx, `
		SELECT meals_completed, meals_hosted, breakfast_meals, late_meals, weekend_meals
		FROM dining_stats
		WHERE user_id = $1
	`, userID).Scan(&s.MealsCompleted, &s.MealsHosted, &s.BreakfastMeals, &s.LateMeals, &s.WeekendMeals)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, wrap(ErrMsgFailedToQueryStats, err)
	}

	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM dining_partners WHERE user_id = $1`, userID).
		Scan(&s.UniqueDiningPartners); err != nil {
		return nil, wrap(ErrMsgFailedToQueryStats, err)
	}

	rows, err := q.Query(ctx, `SELECT city FROM dining_cities WHERE user_id = $1 ORDER BY city`, userID)
	if err != nil {
		return nil, wrap(ErrMsgFailedToQueryStats, err)
	}
	cities, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, wrap(ErrMsgFailedToQueryStats, err)
	}
	s.CitiesVisited = cities

	rows, err = q.Query(ctx, `SELECT cuisine, count FROM dining_cuisine_counts WHERE user_id = $1`, userID)
	if err != nil {
		return nil, wrap(ErrMsgFailedToQueryStats, err)
	}
	defer rows.Close()
	for rows.Next() {
		var cuisine string
		var count int
		if err := rows.Scan(&cuisine, &count); err != nil {
			return nil, wrap(ErrMsgFailedToQueryStats, err)
		}
		s.CuisineCount[cuisine] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRowIteration, err)
	}

	s.Normalize()
	return s, nil
}

// ApplyMeal records the meal and bumps every counter it touches in one transaction
func (r *DiningStatsRepository) ApplyMeal(ctx context.Context, meal *domain.MealRecord) (*domain.UserStatsSnapshot, error) {
	if meal.ID == "" {
		meal.ID = uuid.NewString()
	}

	var snapshot *domain.UserStatsSnapshot
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO dining_meals (id, user_id, request_id, is_host, cuisine, city,
				is_breakfast, is_late, is_weekend, partner_ids, dining_time, completed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, meal.ID, meal.UserID, meal.RequestID, meal.IsHost, nullIfEmpty(meal.Cuisine), nullIfEmpty(meal.City),
			meal.IsBreakfast, meal.IsLate, meal.IsWeekend, nonNil(meal.PartnerIDs), meal.DiningTime, meal.CompletedAt); err != nil {
			return wrap(ErrMsgFailedToInsertMeal, err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO dining_stats (user_id, meals_completed, meals_hosted, breakfast_meals, late_meals, weekend_meals, updated_at)
			VALUES ($1, 1, $2, $3, $4, $5, NOW())
			ON CONFLICT (user_id) DO UPDATE
			SET meals_completed = dining_stats.meals_completed + 1,
				meals_hosted = dining_stats.meals_hosted + EXCLUDED.meals_hosted,
				breakfast_meals = dining_stats.breakfast_meals + EXCLUDED.breakfast_meals,
				late_meals = dining_stats.late_meals + EXCLUDED.late_meals,
				weekend_meals = dining_stats.weekend_meals + EXCLUDED.weekend_meals,
				updated_at = NOW()
		`, meal.UserID, boolToInt(meal.IsHost), boolToInt(meal.IsBreakfast), boolToInt(meal.IsLate), boolToInt(meal.IsWeekend)); err != nil {
			return wrap(ErrMsgFailedToUpsertStats, err)
		}

		if meal.Cuisine != "" {
			if _, err := tx.Exec(ctx, `
				INSERT INTO dining_cuisine_counts (user_id, cuisine, count) VALUES ($1, $2, 1)
				ON CONFLICT (user_id, cuisine) DO UPDATE SET count = dining_cuisine_counts.count + 1
			`, meal.UserID, meal.Cuisine); err != nil {
				return wrap(ErrMsgFailedToUpsertCuisine, err)
			}
		}

		if meal.City != "" {
			if _, err := tx.Exec(ctx, `
				INSERT INTO dining_cities (user_id, city) VALUES ($1, $2) ON CONFLICT DO NOTHING
			`, meal.UserID, meal.City); err != nil {
				return wrap(ErrMsgFailedToInsertCity, err)
			}
		}

		if err := insertPartners(ctx, tx, meal.UserID, meal.PartnerIDs); err != nil {
			return err
		}

		var err error
		snapshot, err = loadSnapshot(ctx, tx, meal.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func insertPartners(ctx context.Context, q querier, userID string, partnerIDs []string) error {
	if len(partnerIDs) == 0 {
		return nil
	}
	if _, err := q.Exec(ctx, `
		INSERT INTO dining_partners (user_id, partner_id)
		SELECT $1, p FROM unnest($2::text[]) AS p
		WHERE p <> '' AND p <> $1
		ON CONFLICT DO NOTHING
	`, userID, partnerIDs); err != nil {
		return wrap(ErrMsgFailedToInsertPartners, err)
	}
	return nil
}

// listMeals returns the meal history in completion order
func listMeals(ctx context.Context, q querier, userID string) ([]domain.MealRecord, error) {
	rows, err := q.Query(ctx, `
		SELECT id, user_id, request_id, is_host, cuisine, city, is_breakfast, is_late, is_weekend,
			partner_ids, dining_time, completed_at
		FROM dining_meals
		WHERE user_id = $1
		ORDER BY completed_at, id
	`, userID)
	if err != nil {
		return nil, wrap(ErrMsgFailedToQueryMeals, err)
	}
	defer rows.Close()

	meals := []domain.MealRecord{}
	for rows.Next() {
		var m domain.MealRecord
		var cuisine, city *string
		if err := rows.Scan(&m.ID, &m.UserID, &m.RequestID, &m.IsHost, &cuisine, &city,
			&m.IsBreakfast, &m.IsLate, &m.IsWeekend, &m.PartnerIDs, &m.DiningTime, &m.CompletedAt); err != nil {
			return nil, wrap(ErrMsgFailedToQueryMeals, err)
		}
		m.Cuisine = deref(cuisine)
		m.City = deref(city)
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRowIteration, err)
	}
	return meals, nil
}

// RebuildFromHistory holds the dining_stats row lock while it reads the history and
// rewrites the counters. ApplyMeal's upsert takes the same lock, so a meal is either
// fully visible to the rebuild or applied on top of its result.
func (r *DiningStatsRepository) RebuildFromHistory(ctx context.Context, userID string) (bool, error) {
	changed := false
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO dining_stats (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING
		`, userID); err != nil {
			return wrap(ErrMsgFailedToLockStats, err)
		}
		if _, err := tx.Exec(ctx, `SELECT 1 FROM dining_stats WHERE user_id = $1 FOR UPDATE`, userID); err != nil {
			return wrap(ErrMsgFailedToLockStats, err)
		}

		// Read committed: both reads below see every meal committed before the lock was granted
		meals, err := listMeals(ctx, tx, userID)
		if err != nil {
			return err
		}
		current, err := loadSnapshot(ctx, tx, userID)
		if err != nil {
			return err
		}

		rebuilt, partners := domain.SnapshotFromMeals(userID, meals)
		if rebuilt.Equal(current) {
			return nil
		}
		if err := replaceSnapshot(ctx, tx, userID, rebuilt, partners); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

// replaceSnapshot overwrites the counters and sets for a user. Callers run it inside a transaction.
func replaceSnapshot(ctx context.Context, tx pgx.Tx, userID string, s *domain.UserStatsSnapshot, partnerIDs []string) error {
	if err := s.Validate(); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO dining_stats (user_id, meals_completed, meals_hosted, breakfast_meals, late_meals, weekend_meals, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET meals_completed = EXCLUDED.meals_completed,
			meals_hosted = EXCLUDED.meals_hosted,
			breakfast_meals = EXCLUDED.breakfast_meals,
			late_meals = EXCLUDED.late_meals,
			weekend_meals = EXCLUDED.weekend_meals,
			updated_at = NOW()
	`, userID, s.MealsCompleted, s.MealsHosted, s.BreakfastMeals, s.LateMeals, s.WeekendMeals); err != nil {
		return wrap(ErrMsgFailedToUpsertStats, err)
	}

	for _, table := range []string{"dining_cuisine_counts", "dining_cities", "dining_partners"} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table+" WHERE user_id = $1", userID); err != nil {
			return wrap(ErrMsgFailedToClearStats, err)
		}
	}

	cuisines := make([]string, 0, len(s.CuisineCount))
	counts := make([]int32, 0, len(s.CuisineCount))
	for cuisine, n := range s.CuisineCount {
		if n > 0 {
			cuisines = append(cuisines, cuisine)
			counts = append(counts, int32(n))
		}
	}
	if len(cuisines) > 0 {
		if _, err := tx.Exec(ctx, `
			INSERT INTO dining_cuisine_counts (user_id, cuisine, count)
			SELECT $1, c, n FROM unnest($2::text[], $3::int[]) AS t(c, n)
		`, userID, cuisines, counts); err != nil {
			return wrap(ErrMsgFailedToUpsertCuisine, err)
		}
	}

	if len(s.CitiesVisited) > 0 {
		if _, err := tx.Exec(ctx, `
			INSERT INTO dining_cities (user_id, city)
			SELECT $1, c FROM unnest($2::text[]) AS c
			ON CONFLICT DO NOTHING
		`, userID, s.CitiesVisited); err != nil {
			return wrap(ErrMsgFailedToInsertCity, err)
		}
	}

	return insertPartners(ctx, tx, userID, partnerIDs)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
