package database

import (
	"context"
	"time"
)

// Cleanup drops journal rows older than thirty days.
func (db *Database) Cleanup(ctx context.Context) error {
	if _, err := db.conn.Exec(ctx, "DELETE FROM panel_events WHERE occurred_at < $1", time.Now().AddDate(0, 0, -30)); err != nil {
		return err
	}
	return nil
}
