// Package reconcile repairs progression state that drifted after partial
// meal-completion failures: dining counters, missed unlocks, missing unlock
// bonuses and the cached XP total.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/donalcheung/dine-together-sub000/internal/achievement"
	"github.com/donalcheung/dine-together-sub000/internal/domain"
	"github.com/donalcheung/dine-together-sub000/internal/event"
	"github.com/donalcheung/dine-together-sub000/internal/logger"
	"github.com/donalcheung/dine-together-sub000/internal/meal"
	"github.com/donalcheung/dine-together-sub000/internal/metrics"
	"github.com/donalcheung/dine-together-sub000/internal/repository"
	"github.com/donalcheung/dine-together-sub000/internal/xp"
)

// RunSummary reports one full pass
type RunSummary struct {
	Users    int `json:"users"`
	Repaired int `json:"repaired"`
	Failed   int `json:"failed"`
}

// Service defines reconciliation operations
type Service interface {
	ReconcileUser(ctx context.Context, userID string) (*domain.ReconcileResult, error)

	// RunOnce reconciles every user with a progression record. Per-user failures
	// are logged and counted; only listing errors abort the pass.
	RunOnce(ctx context.Context) (*RunSummary, error)
}

type service struct {
	progression  repository.Progression
	stats        repository.DiningStats
	achievements repository.Achievement
	catalog      *achievement.Catalog
	xp           xp.Service
	meals        meal.Service
	publisher    *event.ResilientPublisher

	batchSize int
	now       func() time.Time
}

// NewService creates the reconciliation service. publisher may be nil.
func NewService(
	progression repository.Progression,
	stats repository.DiningStats,
	achievements repository.Achievement,
	catalog *achievement.Catalog,
	xpSvc xp.Service,
	meals meal.Service,
	publisher *event.ResilientPublisher,
) Service {
	return &service{
		progression:  progression,
		stats:        stats,
		achievements: achievements,
		catalog:      catalog,
		xp:           xpSvc,
		meals:        meals,
		publisher:    publisher,
		batchSize:    DefaultBatchSize,
		now:          time.Now,
	}
}

func (s *service) ReconcileUser(ctx context.Context, userID string) (*domain.ReconcileResult, error) {
	log := logger.FromContext(ctx).With("user_id", userID)

	prog, err := s.progression.GetProgression(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get progression: %w", err)
	}
	if prog == nil {
		return nil, domain.ErrUserNotFound
	}

	result := &domain.ReconcileResult{UserID: userID}

	if result.StatsRebuilt, err = s.rebuildStats(ctx, userID); err != nil {
		return nil, err
	}
	if result.StatsRebuilt {
		log.Warn(LogMsgStatsRebuilt)
	}

	// Unlock errors are not fatal: a failed bonus is picked up by the backfill below
	// once the grace period has passed.
	unlocked, err := s.meals.ReevaluateAchievements(ctx, userID)
	if err != nil {
		log.Warn(LogMsgReevaluateFailure, "error", err)
	}
	if len(unlocked) > 0 {
		result.NewlyUnlocked = unlocked
	}

	if result.BackfilledKeys, err = s.backfillBonuses(ctx, userID); err != nil {
		return nil, err
	}

	// Last, so the total covers every award made above
	if result.TotalXPBefore, result.TotalXPAfter, err = s.xp.ReconcileTotal(ctx, userID); err != nil {
		return nil, err
	}

	if result.Changed() {
		log.Info(LogMsgUserRepaired,
			"total_xp_before", result.TotalXPBefore,
			"total_xp_after", result.TotalXPAfter,
			"stats_rebuilt", result.StatsRebuilt,
			"newly_unlocked", result.NewlyUnlocked,
			"backfilled", result.BackfilledKeys)
		s.xp.InvalidateSummary(userID)
		if s.publisher != nil {
			s.publisher.PublishWithRetry(ctx, event.NewProgressionReconciledEvent(result))
		}
	}
	return result, nil
}

// rebuildStats recomputes the counters from the meal history and overwrites them when they differ
func (s *service) rebuildStats(ctx context.Context, userID string) (bool, error) {
	rebuilt, err := s.stats.RebuildFromHistory(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to rebuild dining stats: %w", err)
	}
	return rebuilt, nil
}

// backfillBonuses awards the bonus of every settled unlock that has no ledger entry
func (s *service) backfillBonuses(ctx context.Context, userID string) ([]string, error) {
	log := logger.FromContext(ctx).With("user_id", userID)

	records, err := s.achievements.GetUserAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get achievement records: %w", err)
	}

	cutoff := s.now().Add(-BackfillGracePeriod)
	var backfilled []string
	for i := range records {
		rec := &records[i]
		if !rec.IsUnlocked() || rec.UnlockedAt.After(cutoff) {
			continue
		}
		a, err := s.catalog.Lookup(rec.AchievementKey)
		if err != nil {
			log.Warn(LogMsgUnknownRecordKey, "achievement", rec.AchievementKey)
			continue
		}
		if a.XPBonus == 0 {
			continue
		}

		reason := domain.AchievementReason(a.Name)
		has, err := s.progression.HasTransactionWithReason(ctx, userID, reason)
		if err != nil {
			return backfilled, fmt.Errorf("failed to check ledger for %s: %w", a.Key, err)
		}
		if has {
			continue
		}

		if _, err := s.xp.Award(xp.WithSource(ctx, xp.SourceReconcile), userID, a.XPBonus, reason, nil); err != nil {
			return backfilled, fmt.Errorf("failed to backfill bonus for %s: %w", a.Key, err)
		}
		log.Info(LogMsgBonusBackfilled, "achievement", a.Key, "xp_bonus", a.XPBonus)
		backfilled = append(backfilled, a.Key)
	}
	return backfilled, nil
}

func (s *service) RunOnce(ctx context.Context) (*RunSummary, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgRunStarted)
	start := time.Now()
	metrics.ReconcileRuns.Inc()

	summary := &RunSummary{}
	after := ""
	for {
		ids, err := s.progression.ListUserIDs(ctx, after, s.batchSize)
		if err != nil {
			log.Error(LogMsgRunFailed, "error", err)
			return summary, fmt.Errorf("failed to list users: %w", err)
		}

		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			summary.Users++
			res, err := s.ReconcileUser(ctx, id)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return summary, err
				}
				summary.Failed++
				log.Error(LogMsgUserFailed, "user_id", id, "error", err)
				continue
			}
			if res.Changed() {
				summary.Repaired++
			}
		}

		if len(ids) < s.batchSize {
			break
		}
		after = ids[len(ids)-1]
	}

	log.Info(LogMsgRunCompleted,
		LogFieldUsers, summary.Users,
		LogFieldRepaired, summary.Repaired,
		LogFieldFailed, summary.Failed,
		LogFieldDuration, time.Since(start))
	return summary, nil
}
