package metrics

import (
	"context"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
	"github.com/donalcheung/dine-together-sub000/internal/event"
	"github.com/donalcheung/dine-together-sub000/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	for _, eventType := range event.AllTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	var err error
	switch evt.Type {
	case event.XPAwarded:
		var p domain.XPAwardedPayload
		if p, err = event.DecodePayload[domain.XPAwardedPayload](evt.Payload); err == nil {
			source := SourceUnknown
			if s, ok := evt.GetMetadataValue(event.MetadataKeySource).(string); ok && s != "" {
				source = s
			}
			XPAwards.WithLabelValues(source).Inc()
			if p.Amount > 0 {
				XPAwarded.WithLabelValues(source).Add(float64(p.Amount))
			}
		}

	case event.LevelUp:
		var p domain.LevelUpPayload
		if p, err = event.DecodePayload[domain.LevelUpPayload](evt.Payload); err == nil && p.NewLevel > p.OldLevel {
			LevelUps.Add(float64(p.NewLevel - p.OldLevel))
		}

	case event.AchievementUnlocked:
		var p domain.AchievementUnlockedPayload
		if p, err = event.DecodePayload[domain.AchievementUnlockedPayload](evt.Payload); err == nil {
			AchievementsUnlocked.WithLabelValues(p.AchievementKey, string(p.Category)).Inc()
		}

	case event.MealCompleted:
		var p domain.MealCompletedPayload
		if p, err = event.DecodePayload[domain.MealCompletedPayload](evt.Payload); err == nil {
			role := RoleGuest
			if p.IsHost {
				role = RoleHost
			}
			MealsCompleted.WithLabelValues(role).Inc()
		}

	case event.ProgressionReconciled:
		var p domain.ProgressionReconciledPayload
		if p, err = event.DecodePayload[domain.ProgressionReconciledPayload](evt.Payload); err == nil {
			recordRepairs(&p)
		}
	}

	if err != nil {
		log.Debug(LogMsgEventPayloadDecode, "type", evt.Type, "error", err)
		return nil
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

func recordRepairs(p *domain.ProgressionReconciledPayload) {
	if p.TotalXPBefore != p.TotalXPAfter {
		ReconcileRepairs.WithLabelValues(RepairKindTotal).Inc()
	}
	if p.StatsRebuilt {
		ReconcileRepairs.WithLabelValues(RepairKindStats).Inc()
	}
	if len(p.NewlyUnlocked) > 0 {
		ReconcileRepairs.WithLabelValues(RepairKindUnlock).Add(float64(len(p.NewlyUnlocked)))
	}
	if len(p.BackfilledKeys) > 0 {
		ReconcileRepairs.WithLabelValues(RepairKindBackfill).Add(float64(len(p.BackfilledKeys)))
	}
}
