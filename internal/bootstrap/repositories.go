package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/donalcheung/dine-together-sub000/internal/database/memory"
	"github.com/donalcheung/dine-together-sub000/internal/database/postgres"
	"github.com/donalcheung/dine-together-sub000/internal/repository"
)

// Repositories holds all repository implementations used by the application.
type Repositories struct {
	Progression  repository.Progression
	Stats        repository.DiningStats
	Achievements repository.Achievement
	EventLog     repository.EventLog
}

// InitializeRepositories creates the PostgreSQL repositories over a shared pool.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Progression:  postgres.NewProgressionRepository(dbPool),
		Stats:        postgres.NewDiningStatsRepository(dbPool),
		Achievements: postgres.NewAchievementRepository(dbPool),
		EventLog:     postgres.NewEventLogRepository(dbPool),
	}
}

// InitializeMemoryRepositories backs every repository with one in-process store.
func InitializeMemoryRepositories(store *memory.Store) *Repositories {
	return &Repositories{
		Progression:  store,
		Stats:        store,
		Achievements: store,
		EventLog:     store,
	}
}
