package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anicoll/insteon-panel/internal/pkg/database"
	"github.com/anicoll/insteon-panel/internal/pkg/model"
	"github.com/anicoll/insteon-panel/internal/pkg/routes"
)

// LinkCreate serves both the empty row's compose and an undefined row's
// import; the hub promotes an existing pair itself when one matches.
func (h *Handler) LinkCreate(w http.ResponseWriter, r *http.Request) {
	f, err := parseLinkForm(r)
	if err != nil {
		badForm(w, r, f.Return, err)
		return
	}
	if f.ResponderID == "" {
		badForm(w, r, f.Return, errMissingResponder)
		return
	}

	link := model.NewLink{
		ResponderID:    f.ResponderID,
		ResponderGroup: f.ResponderGroup,
		Data1:          f.Data1,
		Data2:          f.Data2,
	}
	h.perform(w, r, f.Return, action{
		kind:    database.EventLinkCreate,
		modem:   f.Modem(),
		subject: fmt.Sprintf("%s:%d", f.ResponderID, f.ResponderGroup),
		detail:  f.Op,
		call: func(ctx context.Context) error {
			return h.hub.CreateDefinedLink(ctx, f.Base, link)
		},
	})
}

// LinkUpdate serves save and fix. Fix resubmits the stored values, which
// is all the hub needs to rewrite a broken pair.
func (h *Handler) LinkUpdate(w http.ResponseWriter, r *http.Request) {
	f, err := parseLinkForm(r)
	if err != nil {
		badForm(w, r, f.Return, err)
		return
	}
	if f.UID == "" {
		badForm(w, r, f.Return, errMissingUID)
		return
	}

	update := model.LinkUpdate{Data1: f.Data1, Data2: f.Data2}
	h.perform(w, r, f.Return, action{
		kind:    database.EventLinkUpdate,
		modem:   f.Modem(),
		subject: f.UID,
		detail:  f.Op,
		call: func(ctx context.Context) error {
			return h.hub.UpdateDefinedLink(ctx, f.Base, f.UID, update)
		},
	})
}

// LinkDelete removes a link from whichever bucket the row sat in.
func (h *Handler) LinkDelete(w http.ResponseWriter, r *http.Request) {
	f, err := parseLinkForm(r)
	if err != nil {
		badForm(w, r, f.Return, err)
		return
	}
	if f.UID == "" {
		badForm(w, r, f.Return, errMissingUID)
		return
	}
	if f.Bucket == "" {
		badForm(w, r, f.Return, errMissingBucket)
		return
	}

	h.perform(w, r, f.Return, action{
		kind:    database.EventLinkDelete,
		modem:   f.Modem(),
		subject: f.UID,
		detail:  f.Bucket.String(),
		call: func(ctx context.Context) error {
			return h.hub.DeleteLink(ctx, f.Base, f.Bucket, f.UID)
		},
	})
}

// DeviceAdd registers an address with a modem, either from a defined row
// the hub could not resolve or from the unknown table.
func (h *Handler) DeviceAdd(w http.ResponseWriter, r *http.Request) {
	f, err := parseDeviceForm(r)
	if err != nil {
		badForm(w, r, f.Return, err)
		return
	}

	h.perform(w, r, f.Return, action{
		kind:    database.EventDeviceAdd,
		modem:   f.Modem,
		subject: f.Address,
		call: func(ctx context.Context) error {
			return h.hub.AddDevice(ctx, f.Modem, f.Address)
		},
	})
}

// DeviceRemove deletes a device resource from its modem.
func (h *Handler) DeviceRemove(w http.ResponseWriter, r *http.Request) {
	f, err := parseDeviceForm(r)
	if err != nil {
		badForm(w, r, f.Return, err)
		return
	}

	h.perform(w, r, f.Return, action{
		kind:    database.EventDeviceRemove,
		modem:   f.Modem,
		subject: f.Address,
		call: func(ctx context.Context) error {
			return h.hub.RemoveDevice(ctx, f.Modem, f.Address)
		},
	})
}

// Settings serves the modem and group settings forms.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	f, err := parseSettingsForm(r)
	if err != nil {
		badForm(w, r, f.Return, err)
		return
	}

	act := action{
		kind:    database.EventSettingsUpdate,
		subject: f.Target,
		detail:  f.Kind,
	}
	switch f.Kind {
	case "modem":
		settings, err := modemSettings(r)
		if err != nil {
			badForm(w, r, f.Return, err)
			return
		}
		act.modem = f.Target
		act.call = func(ctx context.Context) error {
			return h.hub.UpdateModemSettings(ctx, f.Target, settings)
		}
	case "group":
		name := r.PostFormValue("name")
		act.modem = routes.Match(f.Target).ModemAddress
		act.call = func(ctx context.Context) error {
			return h.hub.UpdateGroupSettings(ctx, f.Target, model.GroupSettings{Name: &name})
		}
	default:
		badForm(w, r, f.Return, fmt.Errorf("unknown settings kind %q", f.Kind))
		return
	}

	h.perform(w, r, f.Return, act)
}
