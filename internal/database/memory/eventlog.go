package memory

import (
	"context"
	"sort"
	"time"

	"github.com/donalcheung/dine-together-sub000/internal/repository"
)

func (s *Store) LogEvent(_ context.Context, eventType string, userID *string, payload, metadata map[string]interface{}) error {
	s.eventsMu.Lock()
	defer s.eventsMu.Unlock()

	s.nextID++
	entry := repository.EventLogEntry{
		ID:        s.nextID,
		EventType: eventType,
		Payload:   payload,
		Metadata:  metadata,
		CreatedAt: s.now(),
	}
	if userID != nil {
		uid := *userID
		entry.UserID = &uid
	}
	s.events = append(s.events, entry)
	return nil
}

// ListEvents scans the log from the tail so equal timestamps keep newest-first order
func (s *Store) ListEvents(_ context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error) {
	s.eventsMu.RLock()
	defer s.eventsMu.RUnlock()

	out := []repository.EventLogEntry{}
	for i := len(s.events) - 1; i >= 0; i-- {
		if !eventMatches(&s.events[i], filter) {
			continue
		}
		out = append(out, s.events[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func eventMatches(e *repository.EventLogEntry, f repository.EventLogFilter) bool {
	switch {
	case f.UserID != nil && (e.UserID == nil || *e.UserID != *f.UserID):
		return false
	case f.EventType != nil && e.EventType != *f.EventType:
		return false
	case f.Since != nil && e.CreatedAt.Before(*f.Since):
		return false
	case f.Until != nil && e.CreatedAt.After(*f.Until):
		return false
	}
	return true
}

func (s *Store) CleanupOldEvents(_ context.Context, retentionDays int) (int64, error) {
	s.eventsMu.Lock()
	defer s.eventsMu.Unlock()

	cutoff := s.now().Add(-time.Duration(retentionDays) * 24 * time.Hour)
	kept := s.events[:0]
	var deleted int64
	for _, e := range s.events {
		if e.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.events = kept
	return deleted, nil
}
