package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from map metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Progression event types
const (
	XPAwarded             Type = domain.EventTypeXPAwarded
	LevelUp               Type = domain.EventTypeLevelUp
	AchievementUnlocked   Type = domain.EventTypeAchievementUnlocked
	MealCompleted         Type = domain.EventTypeMealCompleted
	ProgressionReconciled Type = domain.EventTypeProgressionReconciled
)

// AllTypes lists every event type published by the service
var AllTypes = []Type{XPAwarded, LevelUp, AchievementUnlocked, MealCompleted, ProgressionReconciled}

// Metadata keys
const (
	MetadataKeySource = "source"
)

func sourceMetadata(source string) Metadata {
	if source == "" {
		return nil
	}
	return map[string]interface{}{MetadataKeySource: source}
}

// Type-safe event constructors

// NewXPAwardedEvent creates an xp.awarded event
func NewXPAwardedEvent(txn *domain.XPTransaction, newTotal int64, source string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    XPAwarded,
		Payload: domain.XPAwardedPayload{
			UserID:           txn.UserID,
			Amount:           txn.Amount,
			Reason:           txn.Reason,
			RelatedRequestID: txn.RelatedRequestID,
			NewTotalXP:       newTotal,
			Timestamp:        txn.CreatedAt.Unix(),
		},
		Metadata: sourceMetadata(source),
	}
}

// NewLevelUpEvent creates a progression.level_up event
func NewLevelUpEvent(userID string, result *domain.LevelUpResult, source string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    LevelUp,
		Payload: domain.LevelUpPayload{
			UserID:     userID,
			OldLevel:   result.OldLevel,
			NewLevel:   result.NewLevel,
			NewTotalXP: result.NewTotalXP,
			Timestamp:  time.Now().Unix(),
		},
		Metadata: sourceMetadata(source),
	}
}

// NewAchievementUnlockedEvent creates an achievement.unlocked event
func NewAchievementUnlockedEvent(userID, key, name string, category domain.AchievementCategory, bonus int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    AchievementUnlocked,
		Payload: domain.AchievementUnlockedPayload{
			UserID:         userID,
			AchievementKey: key,
			Name:           name,
			Category:       category,
			XPBonus:        bonus,
			Timestamp:      time.Now().Unix(),
		},
	}
}

// NewMealCompletedEvent creates a meal.completed event
func NewMealCompletedEvent(payload domain.MealCompletedPayload) Event {
	if payload.Timestamp == 0 {
		payload.Timestamp = time.Now().Unix()
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    MealCompleted,
		Payload: payload,
		Metadata: map[string]interface{}{
			"request_id": payload.RequestID,
		},
	}
}

// NewProgressionReconciledEvent creates a progression.reconciled event
func NewProgressionReconciledEvent(result *domain.ReconcileResult) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ProgressionReconciled,
		Payload: domain.ProgressionReconciledPayload{
			UserID:         result.UserID,
			TotalXPBefore:  result.TotalXPBefore,
			TotalXPAfter:   result.TotalXPAfter,
			StatsRebuilt:   result.StatsRebuilt,
			BackfilledKeys: result.BackfilledKeys,
			NewlyUnlocked:  result.NewlyUnlocked,
			Timestamp:      time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber synchronously and joins their errors
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
