// Package routes derives page context from a request path. The path is the
// only source of context: no server-provided page metadata is consulted.
package routes

import (
	"regexp"
	"strconv"
	"strings"
)

type PageKind int

const (
	KindNone PageKind = iota
	KindRoot
	KindModem
	KindModemGroup
	KindDevice
	KindDeviceGroup
)

// PageContext holds the segments captured from the current path. Empty
// string means the segment is absent from the path shape.
type PageContext struct {
	Kind          PageKind
	ModemAddress  string
	ModemGroup    string
	DeviceAddress string
	DeviceGroup   string
}

type routeEntry struct {
	kind    PageKind
	pattern *regexp.Regexp
	assign  func(*PageContext, []string)
}

// Most specific shapes first so a device group path never half-matches as
// a modem group path.
var table = []routeEntry{
	{
		kind:    KindDeviceGroup,
		pattern: regexp.MustCompile(`^/modems/([0-9A-Fa-f]{6})/devices/([0-9A-Fa-f]{6})/groups/([0-9]+)$`),
		assign: func(pc *PageContext, m []string) {
			pc.ModemAddress, pc.DeviceAddress, pc.DeviceGroup = m[1], m[2], m[3]
		},
	},
	{
		kind:    KindDevice,
		pattern: regexp.MustCompile(`^/modems/([0-9A-Fa-f]{6})/devices/([0-9A-Fa-f]{6})$`),
		assign: func(pc *PageContext, m []string) {
			pc.ModemAddress, pc.DeviceAddress = m[1], m[2]
		},
	},
	{
		kind:    KindModemGroup,
		pattern: regexp.MustCompile(`^/modems/([0-9A-Fa-f]{6})/groups/([0-9]+)$`),
		assign: func(pc *PageContext, m []string) {
			pc.ModemAddress, pc.ModemGroup = m[1], m[2]
		},
	},
	{
		kind:    KindModem,
		pattern: regexp.MustCompile(`^/modems/([0-9A-Fa-f]{6})$`),
		assign: func(pc *PageContext, m []string) {
			pc.ModemAddress = m[1]
		},
	},
}

// Match resolves a path against the route table. Paths outside the table
// yield a context with every segment absent.
func Match(path string) PageContext {
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	if path == "/" {
		return PageContext{Kind: KindRoot}
	}
	for _, entry := range table {
		m := entry.pattern.FindStringSubmatch(path)
		if m == nil {
			continue
		}
		pc := PageContext{Kind: entry.kind}
		entry.assign(&pc, m)
		return pc
	}
	return PageContext{Kind: KindNone}
}

// CurrentTarget returns the device address when the page is device scoped,
// otherwise the modem address. Empty when neither is present.
func (pc PageContext) CurrentTarget() string {
	if pc.DeviceAddress != "" {
		return pc.DeviceAddress
	}
	return pc.ModemAddress
}

// CurrentGroup prefers the device group over the modem group.
func (pc PageContext) CurrentGroup() string {
	if pc.DeviceGroup != "" {
		return pc.DeviceGroup
	}
	return pc.ModemGroup
}

// CurrentGroupNumber parses CurrentGroup; ok is false when no group
// segment is present.
func (pc PageContext) CurrentGroupNumber() (int, bool) {
	g := pc.CurrentGroup()
	if g == "" {
		return 0, false
	}
	n, err := strconv.Atoi(g)
	if err != nil {
		return 0, false
	}
	return n, true
}

// LinksBase rebuilds the modem-scoped base path used for link API calls.
// Empty when the page has no modem scope.
func (pc PageContext) LinksBase() string {
	if pc.ModemAddress == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("/modems/")
	b.WriteString(pc.ModemAddress)
	if pc.DeviceAddress != "" {
		b.WriteString("/devices/")
		b.WriteString(pc.DeviceAddress)
		if pc.DeviceGroup != "" {
			b.WriteString("/groups/")
			b.WriteString(pc.DeviceGroup)
		}
		return b.String()
	}
	if pc.ModemGroup != "" {
		b.WriteString("/groups/")
		b.WriteString(pc.ModemGroup)
	}
	return b.String()
}

// HasLinkTables reports whether the page renders link tables at all.
func (pc PageContext) HasLinkTables() bool {
	return pc.Kind == KindModem || pc.Kind == KindModemGroup ||
		pc.Kind == KindDevice || pc.Kind == KindDeviceGroup
}

// HasSettingsForm reports whether the page renders a settings form.
// Device pages without a group carry no editable settings of their own.
func (pc PageContext) HasSettingsForm() bool {
	return pc.Kind == KindModem || pc.Kind == KindModemGroup || pc.Kind == KindDeviceGroup
}
