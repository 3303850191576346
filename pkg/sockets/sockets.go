// Package sockets is a small broadcast hub over gorilla websockets. The
// panel pushes one-word reload hints to every connected browser; clients
// never send anything meaningful back.
package sockets

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type Hub struct {
	mu           sync.Mutex
	clients      map[*client]struct{}
	upgrader     websocket.Upgrader
	pingInterval time.Duration
	writeWait    time.Duration
	onError      func(error)
	closed       bool
}

type client struct {
	ws   *websocket.Conn
	send chan []byte
}

func NewHub(opts ...func(*Hub)) *Hub {
	h := &Hub{
		clients:      make(map[*client]struct{}),
		pingInterval: 30 * time.Second,
		writeWait:    10 * time.Second,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  512,
			WriteBufferSize: 512,
		},
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Upgrade turns an incoming request into a tracked client connection.
func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request) error {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if h.onError != nil {
			h.onError(err)
		}
		return err
	}

	c := &client{ws: ws, send: make(chan []byte, 8)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = ws.Close()
		return errors.New("hub closed")
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writer(c)
	go h.reader(c)
	return nil
}

// Broadcast queues msg for every client. Clients too slow to drain their
// queue are dropped rather than stalling the caller.
func (h *Hub) Broadcast(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- []byte(msg):
		default:
			delete(h.clients, c)
			close(c.send)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close drops every client. Further upgrades are refused.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	return nil
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		close(c.send)
	}
	_ = c.ws.Close()
}

func (h *Hub) writer(c *client) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, nil)
				_ = c.ws.Close()
				return
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(h.writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				if h.onError != nil {
					h.onError(err)
				}
				h.remove(c)
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(h.writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}

func (h *Hub) reader(c *client) {
	defer h.remove(c)
	c.ws.SetReadLimit(512)
	_ = c.ws.SetReadDeadline(time.Now().Add(2 * h.pingInterval))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(2 * h.pingInterval))
	})
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}
