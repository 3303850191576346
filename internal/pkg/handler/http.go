package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/anicoll/insteon-panel/internal/pkg/database"
	"github.com/anicoll/insteon-panel/internal/pkg/reconciler"
	"github.com/anicoll/insteon-panel/internal/pkg/routes"
	"github.com/anicoll/insteon-panel/internal/pkg/webui"
)

const eventPageSize = 200

// Page renders any panel page. The URL path is the only page context;
// anything outside the route table is a plain 404.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	pc := routes.Match(r.URL.Path)
	if pc.Kind == routes.KindNone {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	in := reconciler.Input{
		Context:   pc,
		EditUID:   q.Get("edit"),
		Responder: q.Get("responder"),
		ShowError: q.Get("err") == "1",
	}
	if pc.HasLinkTables() {
		tables, err := h.hub.Links(r.Context(), pc.LinksBase())
		if err != nil {
			// Keep rendering from the snapshot; the banner says why the
			// tables are missing.
			zap.L().Error("link fetch failed", zap.String("base", pc.LinksBase()), zap.Error(err))
			in.ShowError = true
		} else {
			in.Tables = tables
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := webui.RenderPage(w, h.reconciler.BuildPage(in)); err != nil {
		zap.L().Error("page render failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

// Events lists the journal, newest first. ?modem= narrows to one modem's
// recent window.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		http.NotFound(w, r)
		return
	}

	var (
		events database.PanelEvents
		err    error
		title  = "Recent activity"
	)
	if modem := r.URL.Query().Get("modem"); modem != "" {
		events, err = h.journal.EventsFor(r.Context(), modem, nil, nil)
		title = "Recent activity for " + modem
	} else {
		events, err = h.journal.RecentEvents(r.Context(), eventPageSize)
	}
	if err != nil {
		zap.L().Error("journal read failed", zap.Error(err))
		http.Error(w, "journal unavailable", http.StatusInternalServerError)
		return
	}

	view := webui.EventsView{Title: title, Events: make([]webui.EventRow, 0, len(events))}
	for _, e := range events {
		view.Events = append(view.Events, webui.EventRow{
			When:    e.OccurredAt,
			Kind:    e.Kind,
			Modem:   e.Modem,
			Subject: e.Subject,
			Detail:  e.Detail,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := webui.RenderEvents(w, view); err != nil {
		zap.L().Error("events render failed", zap.Error(err))
	}
}

// WS upgrades the reload stream every page subscribes to.
func (h *Handler) WS(w http.ResponseWriter, r *http.Request) {
	if err := h.stream.Upgrade(w, r); err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
	}
}
