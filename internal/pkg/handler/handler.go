// Package handler serves the panel pages and the form posts behind every
// row button. Pages render from the owned topology snapshot plus a fresh
// link fetch; mutations go to the hub, then force a full refetch so the
// redirect lands on confirmed state.
package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/anicoll/insteon-panel/internal/pkg/database"
	"github.com/anicoll/insteon-panel/internal/pkg/model"
	"github.com/anicoll/insteon-panel/internal/pkg/reconciler"
	"github.com/anicoll/insteon-panel/pkg/sockets"
)

type hubService interface {
	Links(ctx context.Context, base string) (model.LinkTables, error)
	CreateDefinedLink(ctx context.Context, base string, link model.NewLink) error
	UpdateDefinedLink(ctx context.Context, base, uid string, update model.LinkUpdate) error
	DeleteLink(ctx context.Context, base string, bucket model.Bucket, uid string) error
	AddDevice(ctx context.Context, modemAddr, deviceAddr string) error
	RemoveDevice(ctx context.Context, modemAddr, deviceAddr string) error
	UpdateModemSettings(ctx context.Context, modemAddr string, settings model.ModemSettings) error
	UpdateGroupSettings(ctx context.Context, base string, settings model.GroupSettings) error
}

type refresher interface {
	Refresh(ctx context.Context) error
}

type journal interface {
	RecordAction(ctx context.Context, kind, modem, subject, detail string) error
	RecentEvents(ctx context.Context, limit int) (database.PanelEvents, error)
	EventsFor(ctx context.Context, modem string, from, to *time.Time) (database.PanelEvents, error)
}

type Handler struct {
	hub        hubService
	reconciler *reconciler.Reconciler
	monitor    refresher
	stream     *sockets.Hub
	journal    journal
}

type Option func(*Handler)

// WithJournal enables the events page and action journaling. Without it
// both are silently skipped.
func WithJournal(j journal) Option {
	return func(h *Handler) {
		h.journal = j
	}
}

func New(hub hubService, rec *reconciler.Reconciler, mon refresher, stream *sockets.Hub, opts ...Option) *Handler {
	h := &Handler{
		hub:        hub,
		reconciler: rec,
		monitor:    mon,
		stream:     stream,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type action struct {
	kind    string
	modem   string
	subject string
	detail  string
	call    func(ctx context.Context) error
}

// perform runs one hub mutation and redirects back to the posting page.
// Success journals the action and refetches before redirecting; failure
// redirects with the error flag so the page shows the banner.
func (h *Handler) perform(w http.ResponseWriter, r *http.Request, returnPath string, act action) {
	ctx := r.Context()
	if err := act.call(ctx); err != nil {
		zap.L().Error("hub action failed",
			zap.String("action", act.kind),
			zap.String("modem", act.modem),
			zap.Error(err))
		redirect(w, r, returnPath, true)
		return
	}

	if h.journal != nil {
		if err := h.journal.RecordAction(ctx, act.kind, act.modem, act.subject, act.detail); err != nil {
			zap.L().Warn("journal write failed", zap.Error(err))
		}
	}
	if err := h.monitor.Refresh(ctx); err != nil {
		// The mutation already landed; the next poll catches up.
		zap.L().Warn("refetch after action failed", zap.Error(err))
	}
	redirect(w, r, returnPath, false)
}

func badForm(w http.ResponseWriter, r *http.Request, returnPath string, err error) {
	zap.L().Warn("rejected form post", zap.String("path", r.URL.Path), zap.Error(err))
	redirect(w, r, returnPath, true)
}

func redirect(w http.ResponseWriter, r *http.Request, path string, failed bool) {
	target := safeReturn(path)
	if failed {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + "err=1"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// safeReturn keeps redirects on the panel. Anything but a local absolute
// path falls back to the root page.
func safeReturn(path string) string {
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return "/"
	}
	return path
}
