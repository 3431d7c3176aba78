package eventlog

import (
	"context"
	"fmt"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
	"github.com/donalcheung/dine-together-sub000/internal/event"
	"github.com/donalcheung/dine-together-sub000/internal/logger"
	"github.com/donalcheung/dine-together-sub000/internal/repository"
)

// Service persists every domain event to the events table
type Service interface {
	// Subscribe registers the event logger for every event type the service publishes
	Subscribe(bus event.Bus) error

	// GetUserEvents returns a user's most recent events, newest first
	GetUserEvents(ctx context.Context, userID string, limit int) ([]repository.EventLogEntry, error)

	// ListEvents queries the log with the limit clamped to [1, MaxQueryLimit]
	ListEvents(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error)

	// CleanupOldEvents removes events older than retention period
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}

type service struct {
	repo repository.EventLog
}

// NewService creates a new event logging service
func NewService(repo repository.EventLog) Service {
	return &service{repo: repo}
}

func (s *service) Subscribe(bus event.Bus) error {
	for _, eventType := range event.AllTypes {
		bus.Subscribe(eventType, s.handleEvent)
	}
	return nil
}

func (s *service) handleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, err := event.PayloadToMap(evt.Payload)
	if err != nil {
		log.Warn(LogMsgEventPayloadInvalid, LogFieldType, evt.Type, LogFieldError, err)
		return nil
	}

	var userID *string
	if uid, ok := payload[PayloadKeyUserID].(string); ok && uid != "" {
		userID = &uid
	}

	metadata, _ := evt.Metadata.(map[string]interface{})

	if err := s.repo.LogEvent(ctx, string(evt.Type), userID, payload, metadata); err != nil {
		log.Error(LogMsgFailedToLogEvent, LogFieldError, err, LogFieldType, evt.Type)
		return err
	}

	log.Debug(LogMsgEventLogged, LogFieldType, evt.Type, LogFieldUserID, userID)
	return nil
}

func (s *service) GetUserEvents(ctx context.Context, userID string, limit int) ([]repository.EventLogEntry, error) {
	return s.ListEvents(ctx, repository.EventLogFilter{UserID: &userID, Limit: limit})
}

func (s *service) ListEvents(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error) {
	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultQueryLimit
	case filter.Limit > MaxQueryLimit:
		filter.Limit = MaxQueryLimit
	}
	if filter.Since != nil && filter.Until != nil && filter.Until.Before(*filter.Since) {
		return nil, fmt.Errorf("%w: until precedes since", domain.ErrInvalidInput)
	}
	return s.repo.ListEvents(ctx, filter)
}

func (s *service) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	return s.repo.CleanupOldEvents(ctx, retentionDays)
}
