// Package meal runs the meal-completion workflow: base XP, dining stats and
// achievement unlocks, each as an independently logged step.
package meal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/donalcheung/dine-together-sub000/internal/achievement"
	"github.com/donalcheung/dine-together-sub000/internal/domain"
	"github.com/donalcheung/dine-together-sub000/internal/event"
	"github.com/donalcheung/dine-together-sub000/internal/logger"
	"github.com/donalcheung/dine-together-sub000/internal/metrics"
	"github.com/donalcheung/dine-together-sub000/internal/repository"
	"github.com/donalcheung/dine-together-sub000/internal/xp"
)

// Service defines the meal-completion workflow
type Service interface {
	// CompleteMeal runs every step for one completed meal. Only validation
	// errors are returned; step failures are reported in the result.
	CompleteMeal(ctx context.Context, in *domain.MealCompletion) (*domain.MealCompletionResult, error)

	// ReevaluateAchievements scores the stored snapshot and unlocks anything now earned
	ReevaluateAchievements(ctx context.Context, userID string) ([]string, error)
}

type service struct {
	xp           xp.Service
	evaluator    *achievement.Evaluator
	achievements repository.Achievement
	stats        repository.DiningStats
	classifier   *Classifier
	publisher    *event.ResilientPublisher

	now     func() time.Time
	backoff time.Duration
}

// NewService creates the meal-completion service. publisher may be nil.
func NewService(
	xpSvc xp.Service,
	evaluator *achievement.Evaluator,
	achievements repository.Achievement,
	stats repository.DiningStats,
	classifier *Classifier,
	publisher *event.ResilientPublisher,
) Service {
	return &service{
		xp:           xpSvc,
		evaluator:    evaluator,
		achievements: achievements,
		stats:        stats,
		classifier:   classifier,
		publisher:    publisher,
		now:          time.Now,
		backoff:      StepRetryBackoff,
	}
}

// step is one unit of the workflow. Retryable steps must be idempotent.
type step struct {
	name      string
	retryable bool
	run       func(ctx context.Context, w *workflow) error
}

// workflow carries state between steps of one completion
type workflow struct {
	in       *domain.MealCompletion
	meal     *domain.MealRecord
	snapshot *domain.UserStatsSnapshot
	result   *domain.MealCompletionResult

	// unlocks persisted whose bonus has not been awarded yet
	pendingBonus []*achievement.Achievement
}

// record folds one award into the workflow-wide level change
func (w *workflow) record(r *domain.LevelUpResult) {
	if r == nil {
		return
	}
	if w.result.Overall == nil {
		w.result.Overall = &domain.LevelUpResult{OldLevel: r.OldLevel}
	}
	w.result.Overall.NewLevel = r.NewLevel
	w.result.Overall.NewTotalXP = r.NewTotalXP
	w.result.Overall.LeveledUp = w.result.Overall.NewLevel > w.result.Overall.OldLevel
}

func (s *service) steps() []step {
	return []step{
		{name: StepAwardBaseXP, run: s.awardBaseXP},
		{name: StepUpdateStats, run: s.updateStats},
		{name: StepEvaluateAchievements, retryable: true, run: s.evaluateAchievements},
	}
}

func (s *service) CompleteMeal(ctx context.Context, in *domain.MealCompletion) (*domain.MealCompletionResult, error) {
	if in == nil || strings.TrimSpace(in.UserID) == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgUserIDRequired)
	}
	if strings.TrimSpace(in.RequestID) == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgRequestIDRequired)
	}
	meal, err := s.classifier.Classify(in)
	if err != nil {
		return nil, err
	}
	meal.CompletedAt = s.now().UTC()

	log := logger.FromContext(ctx).With("user_id", in.UserID, "meal_request_id", in.RequestID)
	ctx = xp.WithSource(ctx, xp.SourceMeal)

	log.Info(LogMsgMealCompletionStarted, "is_host", in.IsHost, "cuisine", meal.Cuisine, "city", meal.City)

	w := &workflow{
		in:     in,
		meal:   meal,
		result: &domain.MealCompletionResult{NewlyUnlocked: []string{}},
	}
	for _, st := range s.steps() {
		if err := s.runStep(ctx, st, w); err != nil {
			w.result.FailedSteps = append(w.result.FailedSteps, st.name)
		}
	}

	log.Info(LogMsgMealCompletionFinished,
		"newly_unlocked", w.result.NewlyUnlocked,
		"failed_steps", w.result.FailedSteps)

	s.publish(ctx, event.NewMealCompletedEvent(domain.MealCompletedPayload{
		UserID:        in.UserID,
		RequestID:     in.RequestID,
		IsHost:        in.IsHost,
		Cuisine:       meal.Cuisine,
		City:          meal.City,
		NewlyUnlocked: w.result.NewlyUnlocked,
		FailedSteps:   w.result.FailedSteps,
		Timestamp:     meal.CompletedAt.Unix(),
	}))

	return w.result, nil
}

// runStep logs the step and retries it when allowed. A failure never aborts the workflow.
func (s *service) runStep(ctx context.Context, st step, w *workflow) error {
	log := logger.FromContext(ctx).With("step", st.name, "user_id", w.in.UserID)
	log.Debug(LogMsgStepStarted)

	attempts := 1
	if st.retryable {
		attempts = StepMaxAttempts
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = st.run(ctx, w); err == nil {
			log.Debug(LogMsgStepSucceeded, "attempt", attempt)
			return nil
		}
		if attempt == attempts || ctx.Err() != nil {
			break
		}
		log.Warn(LogMsgStepRetry, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
		case <-time.After(s.backoff * time.Duration(attempt)):
		}
	}

	log.Error(LogMsgStepFailed, "error", err)
	metrics.MealStepFailures.WithLabelValues(st.name).Inc()
	return err
}

func (s *service) awardBaseXP(ctx context.Context, w *workflow) error {
	reason := ReasonCompletedAsGuest
	if w.in.IsHost {
		reason = ReasonCompletedAsHost
	}
	amount := s.evaluator.Catalog().MealXP(w.in.IsHost)

	res, err := s.xp.Award(ctx, w.in.UserID, amount, reason, &w.in.RequestID)
	if err != nil {
		return err
	}
	w.result.LevelUp = res
	w.record(res)
	return nil
}

func (s *service) updateStats(ctx context.Context, w *workflow) error {
	snapshot, err := s.stats.ApplyMeal(ctx, w.meal)
	if err != nil {
		return fmt.Errorf("failed to apply meal: %w", err)
	}
	w.snapshot = snapshot
	return nil
}

// evaluateAchievements is safe to rerun: progress upserts overwrite, unlocks are
// conditional and bonuses already persisted as pending are awarded first.
func (s *service) evaluateAchievements(ctx context.Context, w *workflow) error {
	var errs []error

	pending := w.pendingBonus
	w.pendingBonus = nil
	for _, a := range pending {
		if err := s.awardBonus(ctx, w.in.UserID, a, &w.in.RequestID, w); err != nil {
			w.pendingBonus = append(w.pendingBonus, a)
			errs = append(errs, err)
		}
	}

	if w.snapshot == nil {
		// update_stats failed; score whatever is stored
		snapshot, err := s.stats.GetSnapshot(ctx, w.in.UserID)
		if err != nil {
			return errors.Join(append(errs, fmt.Errorf("failed to get stats snapshot: %w", err))...)
		}
		w.snapshot = snapshot
	}

	unlocked, failed, err := s.unlock(ctx, w.in.UserID, w.snapshot, &w.in.RequestID, w)
	w.result.NewlyUnlocked = append(w.result.NewlyUnlocked, unlocked...)
	w.pendingBonus = append(w.pendingBonus, failed...)
	if err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// unlock persists progress, marks every newly earned achievement and awards its bonus.
// It returns the keys this call unlocked and the entries whose bonus award failed.
func (s *service) unlock(ctx context.Context, userID string, snapshot *domain.UserStatsSnapshot, requestID *string, w *workflow) ([]string, []*achievement.Achievement, error) {
	log := logger.FromContext(ctx)

	prior, err := s.achievements.GetUserAchievements(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get achievement records: %w", err)
	}
	if err := s.achievements.UpsertProgress(ctx, userID, s.evaluator.EvaluateAll(snapshot)); err != nil {
		return nil, nil, fmt.Errorf("failed to store achievement progress: %w", err)
	}

	var (
		unlocked []string
		failed   []*achievement.Achievement
		errs     []error
	)
	for _, key := range s.evaluator.DetectNewUnlocks(snapshot, prior) {
		a, err := s.evaluator.Catalog().Lookup(key)
		if err != nil {
			log.Error(LogMsgUnknownUnlockKey, "achievement", key)
			continue
		}
		st, _ := s.evaluator.Evaluate(snapshot, key)

		won, err := s.achievements.MarkUnlocked(ctx, userID, key, st.Progress, st.Target, s.now().UTC())
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to unlock %s: %w", key, err))
			continue
		}
		if !won {
			// a concurrent workflow got there first and owns the bonus
			continue
		}

		unlocked = append(unlocked, key)
		log.Info(LogMsgAchievementUnlocked, "user_id", userID, "achievement", key, "xp_bonus", a.XPBonus)
		s.publish(ctx, event.NewAchievementUnlockedEvent(userID, a.Key, a.Name, a.Category, a.XPBonus))

		if err := s.awardBonus(ctx, userID, a, requestID, w); err != nil {
			failed = append(failed, a)
			errs = append(errs, err)
		}
	}
	return unlocked, failed, errors.Join(errs...)
}

func (s *service) awardBonus(ctx context.Context, userID string, a *achievement.Achievement, requestID *string, w *workflow) error {
	if a.XPBonus == 0 {
		return nil
	}
	res, err := s.xp.Award(xp.WithSource(ctx, xp.SourceAchievement), userID, a.XPBonus, domain.AchievementReason(a.Name), requestID)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgUnlockBonusFailed, "user_id", userID, "achievement", a.Key, "error", err)
		return fmt.Errorf("failed to award bonus for %s: %w", a.Key, err)
	}
	if w != nil {
		w.record(res)
	}
	return nil
}

func (s *service) ReevaluateAchievements(ctx context.Context, userID string) ([]string, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgUserIDRequired)
	}

	snapshot, err := s.stats.GetSnapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats snapshot: %w", err)
	}

	unlocked, _, err := s.unlock(ctx, userID, snapshot, nil, nil)
	if unlocked == nil {
		unlocked = []string{}
	}
	return unlocked, err
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, evt)
	}
}
