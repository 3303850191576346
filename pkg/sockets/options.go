package sockets

import (
	"net/http"
	"time"
)

func WithPingInterval(d time.Duration) func(*Hub) {
	return func(h *Hub) {
		h.pingInterval = d
	}
}

func WithWriteWait(d time.Duration) func(*Hub) {
	return func(h *Hub) {
		h.writeWait = d
	}
}

func OnError(f func(error)) func(*Hub) {
	return func(h *Hub) {
		h.onError = f
	}
}

// WithCheckOrigin overrides the upgrader's origin policy. The default
// refuses cross-origin upgrades.
func WithCheckOrigin(f func(*http.Request) bool) func(*Hub) {
	return func(h *Hub) {
		h.upgrader.CheckOrigin = f
	}
}
