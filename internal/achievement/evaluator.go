package achievement

import (
	"github.com/donalcheung/dine-together-sub000/internal/domain"
	"github.com/donalcheung/dine-together-sub000/internal/level"
)

// Evaluator scores snapshots against the catalog. It performs no I/O.
type Evaluator struct {
	catalog *Catalog
}

// NewEvaluator creates an evaluator over the catalog
func NewEvaluator(catalog *Catalog) *Evaluator {
	return &Evaluator{catalog: catalog}
}

// Catalog returns the catalog the evaluator scores against
func (e *Evaluator) Catalog() *Catalog {
	return e.catalog
}

// EvaluateAll returns the status of every catalog entry in catalog order
func (e *Evaluator) EvaluateAll(stats *domain.UserStatsSnapshot) []domain.AchievementStatus {
	stats = orEmpty(stats)
	out := make([]domain.AchievementStatus, 0, e.catalog.Len())
	for _, a := range e.catalog.entries {
		out = append(out, status(a, stats))
	}
	return out
}

// Evaluate returns the status of one entry
func (e *Evaluator) Evaluate(stats *domain.UserStatsSnapshot, key string) (domain.AchievementStatus, error) {
	a, err := e.catalog.Lookup(key)
	if err != nil {
		return domain.AchievementStatus{}, err
	}
	return status(a, orEmpty(stats)), nil
}

// DetectNewUnlocks returns the keys unlocked under stats whose prior record is absent
// or not yet unlocked. Once the unlocks are persisted the result is empty.
func (e *Evaluator) DetectNewUnlocks(stats *domain.UserStatsSnapshot, prior []domain.UserAchievement) []string {
	stats = orEmpty(stats)

	unlocked := make(map[string]bool, len(prior))
	for i := range prior {
		if prior[i].UnlockedAt != nil {
			unlocked[prior[i].AchievementKey] = true
		}
	}

	var keys []string
	for _, a := range e.catalog.entries {
		if unlocked[a.Key] {
			continue
		}
		if a.Unlocked(stats) {
			keys = append(keys, a.Key)
		}
	}
	return keys
}

func status(a *Achievement, stats *domain.UserStatsSnapshot) domain.AchievementStatus {
	progress := a.Progress(stats)
	return domain.AchievementStatus{
		Key:             a.Key,
		Progress:        progress,
		Target:          a.Target,
		IsUnlocked:      a.Unlocked(stats),
		ProgressPercent: level.Percent(int64(progress), int64(a.Target)),
	}
}

func orEmpty(stats *domain.UserStatsSnapshot) *domain.UserStatsSnapshot {
	if stats == nil {
		return domain.NewUserStatsSnapshot()
	}
	return stats
}
