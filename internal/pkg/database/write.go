package database

import (
	"context"
	"time"

	"github.com/anicoll/insteon-panel/internal/pkg/model"
)

// Write journals observed status transitions. Satisfies the publisher
// adapter contract, so the monitor feeds this automatically.
func (d *Database) Write(ctx context.Context, updates []model.StatusUpdate) error {
	tx, err := d.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, u := range updates {
		if _, err := tx.Exec(ctx, `
			INSERT INTO panel_events (occurred_at, kind, modem, subject, detail)
			VALUES ($1, $2, $3, $4, $5)
		`, time.Now(), EventLinkStatus, u.Modem, u.UID, u.Status.String()); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// RegisterLink remembers a tracked link so journal rows can be joined back
// to a responder.
func (d *Database) RegisterLink(link model.LinkRef) error {
	_, err := d.conn.Exec(context.Background(), `
		INSERT INTO panel_links (modem, uid, responder_id, responder_group)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING;`, link.Modem, link.UID, link.ResponderID, link.ResponderGroup)
	if err != nil {
		return err
	}

	return nil
}

// RecordAction journals one panel-initiated hub mutation.
func (d *Database) RecordAction(ctx context.Context, kind, modem, subject, detail string) error {
	if _, err := d.conn.Exec(ctx, `
		INSERT INTO panel_events (occurred_at, kind, modem, subject, detail)
		VALUES ($1, $2, $3, $4, $5)
	`, time.Now(), kind, modem, subject, detail); err != nil {
		return err
	}
	return nil
}
