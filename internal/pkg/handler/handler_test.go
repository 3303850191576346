package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anicoll/insteon-panel/internal/pkg/database"
	"github.com/anicoll/insteon-panel/internal/pkg/model"
	"github.com/anicoll/insteon-panel/internal/pkg/reconciler"
	"github.com/anicoll/insteon-panel/internal/pkg/topology"
	"github.com/anicoll/insteon-panel/pkg/sockets"
)

type mockHubService struct {
	LinksFunc               func(ctx context.Context, base string) (model.LinkTables, error)
	CreateDefinedLinkFunc   func(ctx context.Context, base string, link model.NewLink) error
	UpdateDefinedLinkFunc   func(ctx context.Context, base, uid string, update model.LinkUpdate) error
	DeleteLinkFunc          func(ctx context.Context, base string, bucket model.Bucket, uid string) error
	AddDeviceFunc           func(ctx context.Context, modemAddr, deviceAddr string) error
	RemoveDeviceFunc        func(ctx context.Context, modemAddr, deviceAddr string) error
	UpdateModemSettingsFunc func(ctx context.Context, modemAddr string, settings model.ModemSettings) error
	UpdateGroupSettingsFunc func(ctx context.Context, base string, settings model.GroupSettings) error
}

func (m *mockHubService) Links(ctx context.Context, base string) (model.LinkTables, error) {
	if m.LinksFunc != nil {
		return m.LinksFunc(ctx, base)
	}
	return model.LinkTables{}, nil
}

func (m *mockHubService) CreateDefinedLink(ctx context.Context, base string, link model.NewLink) error {
	if m.CreateDefinedLinkFunc != nil {
		return m.CreateDefinedLinkFunc(ctx, base, link)
	}
	return nil
}

func (m *mockHubService) UpdateDefinedLink(ctx context.Context, base, uid string, update model.LinkUpdate) error {
	if m.UpdateDefinedLinkFunc != nil {
		return m.UpdateDefinedLinkFunc(ctx, base, uid, update)
	}
	return nil
}

func (m *mockHubService) DeleteLink(ctx context.Context, base string, bucket model.Bucket, uid string) error {
	if m.DeleteLinkFunc != nil {
		return m.DeleteLinkFunc(ctx, base, bucket, uid)
	}
	return nil
}

func (m *mockHubService) AddDevice(ctx context.Context, modemAddr, deviceAddr string) error {
	if m.AddDeviceFunc != nil {
		return m.AddDeviceFunc(ctx, modemAddr, deviceAddr)
	}
	return nil
}

func (m *mockHubService) RemoveDevice(ctx context.Context, modemAddr, deviceAddr string) error {
	if m.RemoveDeviceFunc != nil {
		return m.RemoveDeviceFunc(ctx, modemAddr, deviceAddr)
	}
	return nil
}

func (m *mockHubService) UpdateModemSettings(ctx context.Context, modemAddr string, settings model.ModemSettings) error {
	if m.UpdateModemSettingsFunc != nil {
		return m.UpdateModemSettingsFunc(ctx, modemAddr, settings)
	}
	return nil
}

func (m *mockHubService) UpdateGroupSettings(ctx context.Context, base string, settings model.GroupSettings) error {
	if m.UpdateGroupSettingsFunc != nil {
		return m.UpdateGroupSettingsFunc(ctx, base, settings)
	}
	return nil
}

type mockRefresher struct {
	calls int
	err   error
}

func (m *mockRefresher) Refresh(context.Context) error {
	m.calls++
	return m.err
}

type recordedAction struct {
	kind, modem, subject, detail string
}

type mockJournal struct {
	recorded []recordedAction
	events   database.PanelEvents
}

func (m *mockJournal) RecordAction(_ context.Context, kind, modem, subject, detail string) error {
	m.recorded = append(m.recorded, recordedAction{kind, modem, subject, detail})
	return nil
}

func (m *mockJournal) RecentEvents(context.Context, int) (database.PanelEvents, error) {
	return m.events, nil
}

func (m *mockJournal) EventsFor(_ context.Context, modem string, _, _ *time.Time) (database.PanelEvents, error) {
	out := database.PanelEvents{}
	for _, e := range m.events {
		if e.Modem == modem {
			out = append(out, e)
		}
	}
	return out, nil
}

func intp(v int) *int { return &v }

func testCache() *topology.Cache {
	cache := topology.New()
	cache.Replace(model.Topology{
		"1A2B3C": {
			Name:     "hall hub",
			User:     "admin",
			Password: "hunter2",
			Address:  "10.0.0.9",
			Port:     25105,
			Groups: map[string]model.Group{
				"1": {Name: "all on", Responder: true},
			},
			Devices: map[string]model.Device{
				"4D5E6F": {
					Name:      "lamp",
					BaseGroup: 1,
					Groups: map[string]model.Group{
						"1": {Name: "load", Responder: true},
					},
				},
			},
		},
	})
	return cache
}

func testTables() model.LinkTables {
	return model.LinkTables{
		Defined: map[string]model.Link{
			"def-1": {ResponderID: "4D5E6F", ResponderGroup: 1, Data1: intp(255), Data2: intp(28), Status: model.StatusWorking},
			"def-2": {ResponderID: "4D5E6F", ResponderGroup: 1, Data1: intp(0), Data2: intp(28), Status: model.StatusBroken},
		},
		Undefined: map[string]model.Link{},
		Unknown:   map[string]model.Link{},
	}
}

func newTestHandler(hub *mockHubService, opts ...Option) (*Handler, *mockRefresher) {
	mon := &mockRefresher{}
	h := New(hub, reconciler.New(testCache()), mon, sockets.NewHub(), opts...)
	return h, mon
}

func get(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func postForm(h http.HandlerFunc, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestPageUnknownPathIs404(t *testing.T) {
	h, _ := newTestHandler(&mockHubService{})
	rec := get(h.Page, "/modems/1A2B3C/nonsense")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPageRendersModemTables(t *testing.T) {
	hub := &mockHubService{
		LinksFunc: func(_ context.Context, base string) (model.LinkTables, error) {
			assert.Equal(t, "/modems/1A2B3C", base)
			return testTables(), nil
		},
	}
	h, _ := newTestHandler(hub)

	rec := get(h.Page, "/modems/1A2B3C")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "hall hub")
	assert.Contains(t, body, "Defined links")
	assert.Contains(t, body, `class="status-ok"`)
	assert.Contains(t, body, `class="status-warn"`)
	assert.NotContains(t, body, ">Save</button>")
}

func TestPageRootSkipsLinkFetch(t *testing.T) {
	fetched := false
	hub := &mockHubService{
		LinksFunc: func(context.Context, string) (model.LinkTables, error) {
			fetched = true
			return model.LinkTables{}, nil
		},
	}
	h, _ := newTestHandler(hub)

	rec := get(h.Page, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, fetched)
	assert.Contains(t, rec.Body.String(), "Modems")
}

func TestPageEditQueryUnlocksRow(t *testing.T) {
	hub := &mockHubService{
		LinksFunc: func(context.Context, string) (model.LinkTables, error) {
			return testTables(), nil
		},
	}
	h, _ := newTestHandler(hub)

	rec := get(h.Page, "/modems/1A2B3C?edit=def-1")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, ">Save</button>")
	assert.Contains(t, body, ">Cancel</a>")
}

func TestPageLinkFetchFailureShowsBanner(t *testing.T) {
	hub := &mockHubService{
		LinksFunc: func(context.Context, string) (model.LinkTables, error) {
			return model.LinkTables{}, assert.AnError
		},
	}
	h, _ := newTestHandler(hub)

	rec := get(h.Page, "/modems/1A2B3C")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="error-banner"`)
}

func TestPageErrFlagShowsBanner(t *testing.T) {
	hub := &mockHubService{
		LinksFunc: func(context.Context, string) (model.LinkTables, error) {
			return testTables(), nil
		},
	}
	h, _ := newTestHandler(hub)

	rec := get(h.Page, "/modems/1A2B3C?err=1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="error-banner"`)
}

func TestEventsWithoutJournalIs404(t *testing.T) {
	h, _ := newTestHandler(&mockHubService{})
	rec := get(h.Events, "/events")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventsListsJournal(t *testing.T) {
	journal := &mockJournal{
		events: database.PanelEvents{
			{ID: 2, OccurredAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), Kind: database.EventLinkCreate, Modem: "1A2B3C", Subject: "4D5E6F:1"},
			{ID: 1, OccurredAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), Kind: database.EventLinkStatus, Modem: "FFAA00", Subject: "aaa", Detail: "Broken"},
		},
	}
	h, _ := newTestHandler(&mockHubService{}, WithJournal(journal))

	rec := get(h.Events, "/events")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "link_create")
	assert.Contains(t, body, "link_status")
	assert.Contains(t, body, "Recent activity")
}

func TestEventsFiltersByModem(t *testing.T) {
	journal := &mockJournal{
		events: database.PanelEvents{
			{ID: 2, OccurredAt: time.Now(), Kind: database.EventLinkCreate, Modem: "1A2B3C"},
			{ID: 1, OccurredAt: time.Now(), Kind: database.EventLinkStatus, Modem: "FFAA00"},
		},
	}
	h, _ := newTestHandler(&mockHubService{}, WithJournal(journal))

	rec := get(h.Events, "/events?modem=1A2B3C")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Recent activity for 1A2B3C")
	assert.Contains(t, body, "link_create")
	assert.NotContains(t, body, "link_status")
}

func TestWSRejectsPlainRequest(t *testing.T) {
	h, _ := newTestHandler(&mockHubService{})
	rec := get(h.WS, "/ws")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
