package cmd

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// mockHub is an in-process stand-in for the hub API used by the command
// tests. It serves one canned topology with link tables and records every
// request it sees; mutations are acknowledged, never applied.
type mockHub struct {
	mu       sync.Mutex
	server   *httptest.Server
	requests []string
	failAll  bool
}

func newMockHub() *mockHub {
	m := &mockHub{}
	mux := http.NewServeMux()
	mux.HandleFunc("/", m.handle)
	m.server = httptest.NewServer(mux)
	return m
}

func (m *mockHub) URL() string {
	return m.server.URL
}

func (m *mockHub) Close() {
	m.server.Close()
}

// FailAll makes every response carry a failure envelope.
func (m *mockHub) FailAll(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAll = fail
}

func (m *mockHub) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}

func (m *mockHub) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *mockHub) handle(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.requests = append(m.requests, r.Method+" "+r.URL.Path)
	fail := m.failAll
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if fail {
		_, _ = w.Write([]byte(`{"status": "error", "message": "mock hub failure"}`))
		return
	}

	switch {
	case r.URL.Path == "/modems.json":
		_, _ = w.Write([]byte(mockTopologyJSON))
	case strings.HasSuffix(r.URL.Path, "/links.json"):
		_, _ = w.Write([]byte(mockLinksJSON))
	default:
		_, _ = w.Write([]byte(`{"status": "success"}`))
	}
}

const mockTopologyJSON = `{
	"status": "success",
	"modems": {
		"1A2B3C": {
			"name": "Hub",
			"user": "admin",
			"password": "secret",
			"address": "10.0.0.5",
			"port": 25105,
			"groups": {
				"1": {
					"name": "All on",
					"responder": true,
					"data_1": {"name": "Level", "values": {"Off": 0, "On": 255}},
					"data_2": {"name": "Ramp", "values": {"Fast": 0, "Slow": 31}}
				}
			},
			"devices": {
				"4D5E6F": {
					"name": "Lounge lamp",
					"base_group": 1,
					"groups": {
						"1": {
							"name": "Lamp",
							"responder": true,
							"data_1": {"name": "Level", "values": {"Off": 0, "On": 255}},
							"data_2": {"name": "Ramp", "values": {"Fast": 0, "Slow": 31}}
						}
					}
				}
			}
		}
	}
}`

const mockLinksJSON = `{
	"status": "success",
	"definedLinks": {
		"aldb-1": {
			"responder_id": "4D5E6F",
			"responder_group": 1,
			"data_1": 255,
			"data_2": 0,
			"status": "Working"
		}
	},
	"undefinedLinks": {},
	"unknownLinks": {}
}`
