package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/anicoll/insteon-panel/internal/pkg/model"
	"github.com/anicoll/insteon-panel/internal/pkg/reconciler"
	"github.com/anicoll/insteon-panel/internal/pkg/routes"
)

var (
	errMissingBase      = errors.New("missing base path")
	errMissingUID       = errors.New("missing link uid")
	errMissingBucket    = errors.New("missing or unknown bucket")
	errMissingResponder = errors.New("missing responder")
	errMissingDevice    = errors.New("modem and device address are required")
)

// linkForm carries everything a link row form can post. Which fields are
// required depends on the action; the handlers validate their own.
type linkForm struct {
	Base           string
	Return         string
	UID            string
	Bucket         model.Bucket
	Op             string
	ResponderID    string
	ResponderGroup int
	Data1          int
	Data2          int
}

// Modem derives the owning modem address from the posted base path.
func (f linkForm) Modem() string {
	return routes.Match(f.Base).ModemAddress
}

func parseLinkForm(r *http.Request) (linkForm, error) {
	if err := r.ParseForm(); err != nil {
		return linkForm{}, err
	}
	f := linkForm{
		Base:   r.PostFormValue("base"),
		Return: r.PostFormValue("return"),
		UID:    r.PostFormValue("uid"),
		Op:     r.PostFormValue("op"),
		Data1:  formInt(r, "data_1"),
		Data2:  formInt(r, "data_2"),
	}
	if f.Base == "" {
		return f, errMissingBase
	}
	if raw := r.PostFormValue("bucket"); raw != "" {
		b, ok := model.ParseBucket(raw)
		if !ok {
			return f, fmt.Errorf("unknown bucket %q", raw)
		}
		f.Bucket = b
	}
	if key := r.PostFormValue("responder"); key != "" {
		id, group, ok := reconciler.ParseResponderKey(key)
		if !ok {
			return f, fmt.Errorf("bad responder key %q", key)
		}
		f.ResponderID, f.ResponderGroup = id, group
	}
	return f, nil
}

type deviceForm struct {
	Modem   string
	Address string
	Return  string
}

func parseDeviceForm(r *http.Request) (deviceForm, error) {
	if err := r.ParseForm(); err != nil {
		return deviceForm{}, err
	}
	f := deviceForm{
		Modem:   r.PostFormValue("modem"),
		Address: strings.TrimSpace(r.PostFormValue("address")),
		Return:  r.PostFormValue("return"),
	}
	if f.Modem == "" || f.Address == "" {
		return f, errMissingDevice
	}
	return f, nil
}

type settingsForm struct {
	Kind   string
	Target string
	Return string
}

func parseSettingsForm(r *http.Request) (settingsForm, error) {
	if err := r.ParseForm(); err != nil {
		return settingsForm{}, err
	}
	f := settingsForm{
		Kind:   r.PostFormValue("kind"),
		Target: r.PostFormValue("target"),
		Return: r.PostFormValue("return"),
	}
	if f.Target == "" {
		return f, errors.New("missing settings target")
	}
	return f, nil
}

// modemSettings builds the full update body. The form always posts every
// field, so nothing is left nil.
func modemSettings(r *http.Request) (model.ModemSettings, error) {
	port, err := strconv.Atoi(r.PostFormValue("port"))
	if err != nil {
		return model.ModemSettings{}, fmt.Errorf("bad port: %w", err)
	}
	name := r.PostFormValue("name")
	user := r.PostFormValue("user")
	password := r.PostFormValue("password")
	address := r.PostFormValue("address")
	return model.ModemSettings{
		Name:     &name,
		User:     &user,
		Password: &password,
		Address:  &address,
		Port:     &port,
	}, nil
}

// formInt reads a numeric field, treating absent or mangled values as 0,
// the hub's own default for link data bytes.
func formInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.PostFormValue(name))
	if err != nil {
		return 0
	}
	return n
}
