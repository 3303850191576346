// Package database journals panel activity: hub mutations issued through
// the panel and observed link status transitions. Nothing rendered on a
// page ever comes from here; the hub stays the only source of truth.
package database

import (
	"context"
	"io"
	"time"

	"github.com/jackc/pgx/v5"
)

type Database struct {
	conn *pgx.Conn
	io.Closer
}

func NewDatabase(conn *pgx.Conn) *Database {
	return &Database{
		conn: conn,
	}
}

func (db *Database) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close(context.Background())
}

// PanelEvent is one journal row.
type PanelEvent struct {
	ID         int64     `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
	Kind       string    `json:"kind"`
	Modem      string    `json:"modem"`
	Subject    string    `json:"subject"`
	Detail     string    `json:"detail"`
}

type PanelEvents []PanelEvent

// Event kinds written by the action handlers and the monitor.
const (
	EventLinkStatus     = "link_status"
	EventLinkCreate     = "link_create"
	EventLinkUpdate     = "link_update"
	EventLinkDelete     = "link_delete"
	EventDeviceAdd      = "device_add"
	EventDeviceRemove   = "device_remove"
	EventSettingsUpdate = "settings_update"
)
