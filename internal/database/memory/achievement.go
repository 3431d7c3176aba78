package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
)

func (s *Store) GetUserAchievements(_ context.Context, userID string) ([]domain.UserAchievement, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	out := []domain.UserAchievement{}
	st := s.state(userID, false)
	if st == nil {
		return out, nil
	}
	for _, a := range st.achievements {
		out = append(out, copyAchievement(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AchievementKey < out[j].AchievementKey })
	return out, nil
}

func copyAchievement(a *domain.UserAchievement) domain.UserAchievement {
	c := *a
	if a.UnlockedAt != nil {
		t := *a.UnlockedAt
		c.UnlockedAt = &t
	}
	return c
}

func (s *Store) UpsertProgress(_ context.Context, userID string, statuses []domain.AchievementStatus) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	st := s.state(userID, true)
	now := s.now()
	for _, status := range statuses {
		a, ok := st.achievements[status.Key]
		if !ok {
			st.achievements[status.Key] = &domain.UserAchievement{
				UserID:         userID,
				AchievementKey: status.Key,
				Progress:       status.Progress,
				Target:         status.Target,
				UpdatedAt:      now,
			}
			continue
		}
		progress := status.Progress
		if a.IsUnlocked() && a.Progress > progress {
			progress = a.Progress
		}
		if a.Progress != progress || a.Target != status.Target {
			a.Progress = progress
			a.Target = status.Target
			a.UpdatedAt = now
		}
	}
	return nil
}

func (s *Store) MarkUnlocked(_ context.Context, userID, key string, progress, target int, at time.Time) (bool, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	st := s.state(userID, true)
	a, ok := st.achievements[key]
	if !ok {
		a = &domain.UserAchievement{UserID: userID, AchievementKey: key}
		st.achievements[key] = a
	}
	if a.IsUnlocked() {
		return false, nil
	}

	unlockedAt := at
	a.UnlockedAt = &unlockedAt
	if progress > a.Progress {
		a.Progress = progress
	}
	a.Target = target
	a.UpdatedAt = s.now()
	return true, nil
}

func (s *Store) SetDisplayed(_ context.Context, userID, key string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	st := s.state(userID, key == "")
	if st == nil {
		return fmt.Errorf("%w: %s", domain.ErrAchievementNotUnlocked, key)
	}
	if key != "" {
		if a, ok := st.achievements[key]; !ok || !a.IsUnlocked() {
			return fmt.Errorf("%w: %s", domain.ErrAchievementNotUnlocked, key)
		}
	}

	now := s.now()
	for k, a := range st.achievements {
		want := k == key
		if a.IsDisplayed != want {
			a.IsDisplayed = want
			a.UpdatedAt = now
		}
	}
	return nil
}
