package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// RecentEvents returns the newest journal rows, newest first.
func (db *Database) RecentEvents(ctx context.Context, limit int) (PanelEvents, error) {
	const query = `
	SELECT id, occurred_at, kind, modem, subject, detail
	FROM panel_events
	ORDER BY occurred_at DESC, id DESC
	LIMIT $1;
	`

	rows, err := db.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// EventsFor returns journal rows for one modem inside a window. A nil
// bound defaults to the last two days.
func (db *Database) EventsFor(ctx context.Context, modem string, from, to *time.Time) (PanelEvents, error) {
	if from == nil || to == nil {
		from = func() *time.Time {
			t := time.Now().AddDate(0, 0, -2)
			return &t
		}()
		to = func() *time.Time {
			t := time.Now()
			return &t
		}()
	}
	const query = `
	SELECT id, occurred_at, kind, modem, subject, detail
	FROM panel_events
	WHERE modem = $1 AND occurred_at BETWEEN $2 AND $3
	ORDER BY occurred_at DESC;
	`

	rows, err := db.conn.Query(ctx, query, modem, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func scanEvents(rows pgx.Rows) (PanelEvents, error) {
	var events PanelEvents
	for rows.Next() {
		var event PanelEvent
		if err := rows.Scan(&event.ID, &event.OccurredAt, &event.Kind, &event.Modem, &event.Subject, &event.Detail); err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		if err == pgx.ErrNoRows {
			return events, nil
		}
		return nil, err
	}

	return events, nil
}
