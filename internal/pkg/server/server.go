// Package server owns the route table and the HTTP listener. Action posts
// register ahead of the page catch-all so the path matcher never sees them.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/anicoll/insteon-panel/internal/pkg/handler"
)

type Server struct {
	http *http.Server
}

func New(addr string, h *handler.Handler) *Server {
	r := mux.NewRouter()
	r.HandleFunc("/ws", h.WS).Methods(http.MethodGet)
	r.HandleFunc("/events", h.Events).Methods(http.MethodGet)
	r.HandleFunc("/actions/links/create", h.LinkCreate).Methods(http.MethodPost)
	r.HandleFunc("/actions/links/update", h.LinkUpdate).Methods(http.MethodPost)
	r.HandleFunc("/actions/links/delete", h.LinkDelete).Methods(http.MethodPost)
	r.HandleFunc("/actions/devices/add", h.DeviceAdd).Methods(http.MethodPost)
	r.HandleFunc("/actions/devices/remove", h.DeviceRemove).Methods(http.MethodPost)
	r.HandleFunc("/actions/settings", h.Settings).Methods(http.MethodPost)
	r.PathPrefix("/").HandlerFunc(h.Page).Methods(http.MethodGet)

	return &Server{
		http: &http.Server{
			Handler:      handlers.RecoveryHandler()(LoggingMiddleware(r)),
			Addr:         addr,
			WriteTimeout: 15 * time.Second,
			ReadTimeout:  15 * time.Second,
		},
	}
}

// Run serves until the context ends, then drains in-flight requests.
// Websocket connections are hijacked and ride out the shutdown on their
// own ping cycle.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
