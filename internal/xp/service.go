package xp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
	"github.com/donalcheung/dine-together-sub000/internal/event"
	"github.com/donalcheung/dine-together-sub000/internal/level"
	"github.com/donalcheung/dine-together-sub000/internal/logger"
	"github.com/donalcheung/dine-together-sub000/internal/repository"
)

// Service defines the XP ledger operations
type Service interface {
	// InitializeUser creates the progression record with the welcome bonus.
	// The bool is false when the record already existed.
	InitializeUser(ctx context.Context, userID string) (*domain.Progression, bool, error)

	// Award appends one ledger entry and bumps the running total in the same unit of work
	Award(ctx context.Context, userID string, amount int64, reason string, relatedRequestID *string) (*domain.LevelUpResult, error)
	AwardAction(ctx context.Context, userID, action string, relatedRequestID *string) (*domain.LevelUpResult, error)

	GetSummary(ctx context.Context, userID string) (*domain.ProgressionSummary, error)
	GetTransactions(ctx context.Context, userID string, limit int) ([]domain.XPTransaction, error)

	// ReconcileTotal repairs total_xp to the ledger sum
	ReconcileTotal(ctx context.Context, userID string) (before, after int64, err error)

	InvalidateSummary(userID string)
}

type service struct {
	repo         repository.Progression
	achievements repository.Achievement
	publisher    *event.ResilientPublisher
	cache        *summaryCache

	now   func() time.Time
	newID func() uuid.UUID
}

// NewService creates the XP service. achievements and publisher may be nil.
func NewService(repo repository.Progression, achievements repository.Achievement, publisher *event.ResilientPublisher, cacheConfig CacheConfig) Service {
	return &service{
		repo:         repo,
		achievements: achievements,
		publisher:    publisher,
		cache:        newSummaryCache(cacheConfig),
		now:          time.Now,
		newID:        uuid.New,
	}
}

func (s *service) InitializeUser(ctx context.Context, userID string) (*domain.Progression, bool, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, false, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgUserIDRequired)
	}

	welcome := s.newTransaction(userID, domain.WelcomeBonusXP, domain.ReasonWelcomeBonus, nil)
	created, err := s.repo.CreateProgression(ctx, welcome)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create progression: %w", err)
	}

	prog, err := s.repo.GetProgression(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get progression: %w", err)
	}
	if prog == nil {
		return nil, false, domain.ErrUserNotFound
	}

	if created {
		logger.FromContext(ctx).Info(LogMsgUserInitialized, "user_id", userID, "total_xp", prog.TotalXP)
		s.publish(ctx, event.NewXPAwardedEvent(welcome, prog.TotalXP, SourceWelcome))
	}
	return prog, created, nil
}

func (s *service) Award(ctx context.Context, userID string, amount int64, reason string, relatedRequestID *string) (*domain.LevelUpResult, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgUserIDRequired)
	}
	if strings.TrimSpace(reason) == "" {
		return nil, domain.ErrEmptyReason
	}

	txn := s.newTransaction(userID, amount, reason, relatedRequestID)

	var before, after int64
	var err error
	for attempt := 1; attempt <= AwardMaxAttempts; attempt++ {
		before, after, err = s.repo.ApplyXP(ctx, txn)
		if err == nil || !errors.Is(err, domain.ErrConcurrentUpdate) || attempt == AwardMaxAttempts {
			break
		}

		log.Warn(LogMsgAwardRetry, "user_id", userID, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to award xp: %w", ctx.Err())
		case <-time.After(AwardRetryBackoff * time.Duration(attempt)):
		}
	}
	if err != nil {
		log.Error(LogMsgAwardFailed, "user_id", userID, "amount", amount, "error", err)
		return nil, fmt.Errorf("failed to award xp: %w", err)
	}

	s.cache.Invalidate(userID)

	result := &domain.LevelUpResult{
		OldLevel:   level.LevelForXP(before),
		NewLevel:   level.LevelForXP(after),
		NewTotalXP: after,
	}
	result.LeveledUp = result.NewLevel > result.OldLevel

	source := SourceFromContext(ctx)
	log.Info(LogMsgXPAwarded, "user_id", userID, "amount", amount, "reason", reason,
		"new_total_xp", after, "source", source)
	s.publish(ctx, event.NewXPAwardedEvent(txn, after, source))

	if result.LeveledUp {
		log.Info(LogMsgLevelUp, "user_id", userID, "old_level", result.OldLevel, "new_level", result.NewLevel)
		s.publish(ctx, event.NewLevelUpEvent(userID, result, source))
	}

	return result, nil
}

func (s *service) AwardAction(ctx context.Context, userID, action string, relatedRequestID *string) (*domain.LevelUpResult, error) {
	reward, ok := LookupAction(action)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownAction, action)
	}
	if _, set := ctx.Value(sourceKey{}).(string); !set {
		ctx = WithSource(ctx, SourceAction)
	}
	return s.Award(ctx, userID, reward.Amount, reward.Reason, relatedRequestID)
}

func (s *service) GetSummary(ctx context.Context, userID string) (*domain.ProgressionSummary, error) {
	if cached, ok := s.cache.Get(userID); ok {
		logger.FromContext(ctx).Debug(LogMsgSummaryCacheHit, "user_id", userID)
		return cached, nil
	}

	prog, err := s.repo.GetProgression(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get progression: %w", err)
	}
	if prog == nil {
		return nil, domain.ErrUserNotFound
	}

	p := level.ProgressWithinLevel(prog.TotalXP)
	summary := &domain.ProgressionSummary{
		UserID:          userID,
		TotalXP:         prog.TotalXP,
		CurrentLevel:    p.CurrentLevel,
		XPIntoLevel:     p.XPIntoLevel,
		XPNeededForNext: p.XPNeededForNext,
		ProgressPercent: p.ProgressPercent,
	}

	if s.achievements != nil {
		records, err := s.achievements.GetUserAchievements(ctx, userID)
		if err != nil {
			// The level part is still useful; skip caching so the next read retries
			logger.FromContext(ctx).Warn(LogMsgAchievementCountErr, "user_id", userID, "error", err)
			return summary, nil
		}
		for i := range records {
			if !records[i].IsUnlocked() {
				continue
			}
			summary.UnlockedCount++
			if records[i].IsDisplayed {
				summary.DisplayedKey = records[i].AchievementKey
			}
		}
	}

	s.cache.Set(userID, summary)
	return summary, nil
}

func (s *service) GetTransactions(ctx context.Context, userID string, limit int) ([]domain.XPTransaction, error) {
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}
	if limit > MaxTransactionLimit {
		limit = MaxTransactionLimit
	}
	txns, err := s.repo.ListTransactions(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

func (s *service) ReconcileTotal(ctx context.Context, userID string) (int64, int64, error) {
	before, after, err := s.repo.ReconcileTotal(ctx, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to reconcile total: %w", err)
	}
	if before != after {
		s.cache.Invalidate(userID)
		logger.FromContext(ctx).Warn(LogMsgTotalReconciled, "user_id", userID, "before", before, "after", after)
	}
	return before, after, nil
}

func (s *service) InvalidateSummary(userID string) {
	s.cache.Invalidate(userID)
}

func (s *service) newTransaction(userID string, amount int64, reason string, relatedRequestID *string) *domain.XPTransaction {
	return &domain.XPTransaction{
		ID:               s.newID(),
		UserID:           userID,
		Amount:           amount,
		Reason:           reason,
		RelatedRequestID: relatedRequestID,
		CreatedAt:        s.now().UTC(),
	}
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, evt)
	}
}
