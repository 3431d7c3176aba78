package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/donalcheung/dine-together-sub000/internal/repository"
)

type eventLogRepository struct {
	db *pgxpool.Pool
}

// NewEventLogRepository creates the events table repository
func NewEventLogRepository(db *pgxpool.Pool) repository.EventLog {
	return &eventLogRepository{db: db}
}

func (r *eventLogRepository) LogEvent(ctx context.Context, eventType string, userID *string, payload, metadata map[string]interface{}) error {
	query := `
		INSERT INTO events (event_type, user_id, payload, metadata)
		VALUES ($1, $2, $3, $4)
	`

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarshalEventData, err)
	}

	var metadataJSON []byte
	if metadata != nil {
		metadataJSON, err = json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToMarshalEventData, err)
		}
	}

	if _, err = r.db.Exec(ctx, query, eventType, userID, payloadJSON, metadataJSON); err != nil {
		return wrap(ErrMsgFailedToInsertEvent, err)
	}
	return nil
}

// ListEvents builds one WHERE clause from the set filter fields
func (r *eventLogRepository) ListEvents(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error) {
	query, args := eventQuery(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(ErrMsgFailedToQueryEvents, err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func eventQuery(filter repository.EventLogFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	where := func(clause string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(clause, len(args)))
	}

	if filter.UserID != nil {
		where("user_id = $%d", *filter.UserID)
	}
	if filter.EventType != nil {
		where("event_type = $%d", *filter.EventType)
	}
	if filter.Since != nil {
		where("created_at >= $%d", *filter.Since)
	}
	if filter.Until != nil {
		where("created_at <= $%d", *filter.Until)
	}

	var b strings.Builder
	b.WriteString("SELECT id, event_type, user_id, payload, metadata, created_at FROM events")
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC, id DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	return b.String(), args
}

// CleanupOldEvents removes events older than the specified number of days
func (r *eventLogRepository) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	query := `
		DELETE FROM events
		WHERE created_at < NOW() - INTERVAL '1 day' * $1
	`

	result, err := r.db.Exec(ctx, query, retentionDays)
	if err != nil {
		return 0, wrap(ErrMsgFailedToCleanupEvents, err)
	}

	return result.RowsAffected(), nil
}

func scanEvents(rows pgx.Rows) ([]repository.EventLogEntry, error) {
	events := []repository.EventLogEntry{}
	for rows.Next() {
		var (
			evt               repository.EventLogEntry
			payload, metadata []byte
		)
		if err := rows.Scan(&evt.ID, &evt.EventType, &evt.UserID, &payload, &metadata, &evt.CreatedAt); err != nil {
			return nil, wrap(ErrMsgFailedToQueryEvents, err)
		}
		if err := json.Unmarshal(payload, &evt.Payload); err != nil {
			return nil, wrap(ErrMsgFailedToUnmarshalEventData, err)
		}
		// metadata is NULL for events published without it
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &evt.Metadata); err != nil {
				return nil, wrap(ErrMsgFailedToUnmarshalEventData, err)
			}
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(ErrMsgRowIteration, err)
	}
	return events, nil
}
