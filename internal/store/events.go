package store

import (
	"context"
	"fmt"

	"github.com/alextreichler/openmarket/internal/models"
)

// AppendEvent stores the event and sets its Seq.
func (q queries) AppendEvent(ctx context.Context, e *models.Event) error {
	res, err := q.q.ExecContext(ctx, `
		INSERT INTO events (id, kind, payload, created_at) VALUES (?, ?, ?, ?)
	`, e.ID, e.Kind, string(e.Payload), toNanos(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	e.Seq = seq
	return nil
}

// EventsAfter returns up to limit events with seq > after, oldest first.
func (q queries) EventsAfter(ctx context.Context, after int64, limit int) ([]models.Event, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT seq, id, kind, payload, created_at FROM events
		WHERE seq > ? ORDER BY seq ASC LIMIT ?
	`, after, limit)
	if err != nil {
		return nil, fmt.Errorf("events after %d: %w", after, err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		var payload string
		var createdAt int64
		if err := rows.Scan(&e.Seq, &e.ID, &e.Kind, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("events after %d: %w", after, err)
		}
		e.Payload = []byte(payload)
		e.CreatedAt = fromNanos(createdAt)
		events = append(events, e)
	}
	return events, rows.Err()
}
