// Package reconciler turns a topology snapshot plus fetched link tables
// into the view models the templates render. Building a page twice from
// identical inputs yields identical output; every rebuild replaces the
// whole table, never patches it.
package reconciler

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/anicoll/insteon-panel/internal/pkg/model"
	"github.com/anicoll/insteon-panel/internal/pkg/routes"
	"github.com/anicoll/insteon-panel/internal/pkg/topology"
)

type Reconciler struct {
	cache *topology.Cache
}

func New(cache *topology.Cache) *Reconciler {
	return &Reconciler{cache: cache}
}

// Input carries everything one render depends on. EditUID and Responder
// arrive as query parameters so that cancelling is just navigating back
// to the bare page.
type Input struct {
	Context   routes.PageContext
	Tables    model.LinkTables
	EditUID   string
	Responder string
	ShowError bool
}

type Page struct {
	Title     string
	Path      string
	Base      string
	Context   routes.PageContext
	Nav       []NavModem
	Settings  *Form
	Device    *DeviceHeader
	Tables    []Table
	ShowError bool
}

type NavModem struct {
	Address string
	Name    string
	Path    string
	Groups  []NavEntry
	Devices []NavDevice
}

type NavDevice struct {
	Address string
	Name    string
	Path    string
	Groups  []NavEntry
}

type NavEntry struct {
	Path  string
	Label string
}

// DeviceHeader is shown on device-scoped pages and carries the remove
// action.
type DeviceHeader struct {
	ModemAddress string
	Address      string
	Name         string
}

type Form struct {
	Kind   string
	Target string
	Fields []Field
}

type Field struct {
	Label   string
	Name    string
	Value   string
	Secret  bool
	Numeric bool
}

// BuildPage assembles the full view model for one request.
func (r *Reconciler) BuildPage(in Input) Page {
	pc := in.Context
	page := Page{
		Context:   pc,
		Path:      pagePath(pc),
		Base:      pc.LinksBase(),
		Nav:       r.buildNav(),
		Title:     r.pageTitle(pc),
		ShowError: in.ShowError,
	}

	if pc.HasSettingsForm() {
		page.Settings = r.buildSettings(pc)
	}
	if pc.DeviceAddress != "" {
		if d, ok := r.cache.Device(pc.ModemAddress, pc.DeviceAddress); ok {
			page.Device = &DeviceHeader{
				ModemAddress: pc.ModemAddress,
				Address:      pc.DeviceAddress,
				Name:         d.Name,
			}
		}
	}
	if pc.HasLinkTables() {
		exclude := r.cache.ExclusionFor(pc.CurrentTarget(), pc.CurrentGroup())
		page.Tables = []Table{
			r.definedTable(in),
			r.undefinedTable(in, exclude),
			r.unknownTable(in),
		}
	}
	return page
}

func pagePath(pc routes.PageContext) string {
	if base := pc.LinksBase(); base != "" {
		return base
	}
	return "/"
}

func (r *Reconciler) pageTitle(pc routes.PageContext) string {
	switch pc.Kind {
	case routes.KindModem:
		if m, ok := r.cache.Modem(pc.ModemAddress); ok && m.Name != "" {
			return m.Name
		}
		return pc.ModemAddress
	case routes.KindModemGroup:
		name := pc.ModemAddress
		if m, ok := r.cache.Modem(pc.ModemAddress); ok && m.Name != "" {
			name = m.Name
		}
		return fmt.Sprintf("%s group %s", name, pc.ModemGroup)
	case routes.KindDevice:
		if d, ok := r.cache.Device(pc.ModemAddress, pc.DeviceAddress); ok && d.Name != "" {
			return d.Name
		}
		return pc.DeviceAddress
	case routes.KindDeviceGroup:
		name := pc.DeviceAddress
		if d, ok := r.cache.Device(pc.ModemAddress, pc.DeviceAddress); ok && d.Name != "" {
			name = d.Name
		}
		return fmt.Sprintf("%s group %s", name, pc.DeviceGroup)
	default:
		return "Modems"
	}
}

func (r *Reconciler) buildNav() []NavModem {
	snap := r.cache.Snapshot()
	nav := make([]NavModem, 0, len(snap))

	for _, addr := range snap.ModemAddresses() {
		modem := snap[addr]
		modemPath := "/modems/" + addr
		nm := NavModem{
			Address: addr,
			Name:    displayName(modem.Name, addr),
			Path:    modemPath,
		}
		for _, n := range model.GroupNumbers(modem.Groups) {
			g := modem.Groups[fmt.Sprint(n)]
			nm.Groups = append(nm.Groups, NavEntry{
				Path:  fmt.Sprintf("%s/groups/%d", modemPath, n),
				Label: displayName(g.Name, fmt.Sprintf("group %d", n)),
			})
		}
		for _, devAddr := range modem.DeviceAddresses() {
			device := modem.Devices[devAddr]
			devPath := fmt.Sprintf("%s/devices/%s", modemPath, devAddr)
			nd := NavDevice{
				Address: devAddr,
				Name:    displayName(device.Name, devAddr),
				Path:    devPath,
			}
			for _, n := range model.GroupNumbers(device.Groups) {
				g := device.Groups[fmt.Sprint(n)]
				nd.Groups = append(nd.Groups, NavEntry{
					Path:  fmt.Sprintf("%s/groups/%d", devPath, n),
					Label: displayName(g.Name, fmt.Sprintf("group %d", n)),
				})
			}
			nm.Devices = append(nm.Devices, nd)
		}
		nav = append(nav, nm)
	}
	return nav
}

func displayName(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}

func (r *Reconciler) buildSettings(pc routes.PageContext) *Form {
	switch pc.Kind {
	case routes.KindModem:
		modem, ok := r.cache.Modem(pc.ModemAddress)
		if !ok {
			return nil
		}
		return &Form{
			Kind:   "modem",
			Target: pc.ModemAddress,
			Fields: []Field{
				{Label: "Name", Name: "name", Value: modem.Name},
				{Label: "User", Name: "user", Value: modem.User},
				{Label: "Password", Name: "password", Value: modem.Password, Secret: true},
				{Label: "Address", Name: "address", Value: modem.Address},
				{Label: "Port", Name: "port", Value: fmt.Sprint(modem.Port), Numeric: true},
			},
		}
	case routes.KindModemGroup, routes.KindDeviceGroup:
		n, ok := pc.CurrentGroupNumber()
		if !ok {
			return nil
		}
		g, ok := r.cache.GroupData(pc.CurrentTarget(), n)
		if !ok {
			return nil
		}
		return &Form{
			Kind:   "group",
			Target: pc.LinksBase(),
			Fields: []Field{
				{Label: "Name", Name: "name", Value: g.Name},
			},
		}
	}
	return nil
}

// sortedUIDs fixes the row order so rebuilding a table is idempotent.
func sortedUIDs(links map[string]model.Link) []string {
	uids := lo.Keys(links)
	sort.Strings(uids)
	return uids
}
