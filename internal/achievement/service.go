package achievement

import (
	"context"
	"fmt"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
	"github.com/donalcheung/dine-together-sub000/internal/level"
	"github.com/donalcheung/dine-together-sub000/internal/logger"
	"github.com/donalcheung/dine-together-sub000/internal/repository"
)

// Service serves per-user achievement state
type Service interface {
	Catalog() []*Achievement
	GetUserAchievements(ctx context.Context, userID string) ([]domain.UserAchievementView, error)
	SetDisplayed(ctx context.Context, userID, key string) error
}

type service struct {
	evaluator *Evaluator
	repo      repository.Achievement
	stats     repository.DiningStats
}

// NewService creates the achievement read service
func NewService(evaluator *Evaluator, repo repository.Achievement, stats repository.DiningStats) Service {
	return &service{
		evaluator: evaluator,
		repo:      repo,
		stats:     stats,
	}
}

// Catalog returns every catalog entry in display order
func (s *service) Catalog() []*Achievement {
	return s.evaluator.catalog.All()
}

// GetUserAchievements merges the catalog with the user's records.
// Progress is evaluated against the current snapshot; unlock and display state come from storage.
func (s *service) GetUserAchievements(ctx context.Context, userID string) ([]domain.UserAchievementView, error) {
	log := logger.FromContext(ctx)

	records, err := s.repo.GetUserAchievements(ctx, userID)
	if err != nil {
		log.Error(LogMsgGetAchievementsError, "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get achievement records: %w", err)
	}
	snapshot, err := s.stats.GetSnapshot(ctx, userID)
	if err != nil {
		log.Error(LogMsgGetAchievementsError, "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get stats snapshot: %w", err)
	}

	byKey := make(map[string]*domain.UserAchievement, len(records))
	for i := range records {
		byKey[records[i].AchievementKey] = &records[i]
	}

	statuses := s.evaluator.EvaluateAll(snapshot)
	views := make([]domain.UserAchievementView, 0, len(statuses))
	for i, a := range s.evaluator.catalog.entries {
		st := statuses[i]
		view := domain.UserAchievementView{
			Key:             a.Key,
			Name:            a.Name,
			Description:     a.Description,
			Icon:            a.Icon,
			Category:        a.Category,
			XPBonus:         a.XPBonus,
			Progress:        st.Progress,
			Target:          a.Target,
			ProgressPercent: st.ProgressPercent,
		}
		if rec, ok := byKey[a.Key]; ok {
			view.UnlockedAt = rec.UnlockedAt
			view.IsDisplayed = rec.IsDisplayed
			// An unlock is permanent even if the snapshot was later rebuilt lower
			if rec.UnlockedAt != nil && rec.Progress > view.Progress {
				view.Progress = rec.Progress
				view.ProgressPercent = level.Percent(int64(rec.Progress), int64(a.Target))
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// SetDisplayed selects the achievement shown on the user's profile. An empty key clears it.
func (s *service) SetDisplayed(ctx context.Context, userID, key string) error {
	log := logger.FromContext(ctx)

	if key != "" {
		if _, err := s.evaluator.catalog.Lookup(key); err != nil {
			return err
		}
	}

	if err := s.repo.SetDisplayed(ctx, userID, key); err != nil {
		return fmt.Errorf("failed to set displayed achievement: %w", err)
	}

	if key == "" {
		log.Info(LogMsgDisplayCleared, "user_id", userID)
	} else {
		log.Info(LogMsgDisplaySet, "user_id", userID, "achievement", key)
	}
	return nil
}
