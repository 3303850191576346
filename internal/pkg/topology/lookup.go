package topology

import (
	"strconv"

	"github.com/anicoll/insteon-panel/internal/pkg/model"
)

// Ref names one responder slot: a modem or device address plus a group
// number.
type Ref struct {
	DeviceID string
	Group    int
}

// Candidate is one eligible responder in provider order.
type Candidate struct {
	Ref
	Name string
}

// Key encodes the pair as an "address:group" form value.
func (r Ref) Key() string {
	return r.DeviceID + ":" + strconv.Itoa(r.Group)
}

// GroupData resolves the group record backing a link's selectors. The
// top-level modem collection is searched first, then every modem's device
// collection. A modem with no declared group 1 still answers for group 1,
// since every modem responds there.
func (c *Cache) GroupData(deviceID string, group int) (model.Group, bool) {
	snap := c.Snapshot()
	key := strconv.Itoa(group)

	if modem, ok := snap[deviceID]; ok {
		if g, ok := modem.Groups[key]; ok {
			return g, true
		}
		if group == 1 {
			return model.Group{Name: modem.Name, Responder: true}, true
		}
		return model.Group{}, false
	}

	for _, addr := range snap.ModemAddresses() {
		modem := snap[addr]
		device, ok := modem.Devices[deviceID]
		if !ok {
			continue
		}
		g, ok := device.Groups[key]
		return g, ok
	}
	return model.Group{}, false
}

// ResponderCandidates lists every eligible responder pair in provider
// order: modems by address (each one an implicit group-1 responder), then
// each modem's declared responder groups numerically, then its devices by
// address with their declared responder groups. The excluded ref is the
// entity being viewed, dropped to prevent self-links.
func (c *Cache) ResponderCandidates(exclude Ref) []Candidate {
	snap := c.Snapshot()
	candidates := make([]Candidate, 0, 16)

	add := func(id string, group int, name string) {
		if id == exclude.DeviceID && group == exclude.Group {
			return
		}
		candidates = append(candidates, Candidate{Ref: Ref{DeviceID: id, Group: group}, Name: name})
	}

	for _, addr := range snap.ModemAddresses() {
		modem := snap[addr]

		name := modem.Name
		if g, ok := modem.Groups["1"]; ok && g.Name != "" {
			name = g.Name
		}
		add(addr, 1, name)

		for _, n := range model.GroupNumbers(modem.Groups) {
			if n == 1 {
				continue
			}
			g := modem.Groups[strconv.Itoa(n)]
			if !g.Responder {
				continue
			}
			add(addr, n, g.Name)
		}

		for _, devAddr := range modem.DeviceAddresses() {
			device := modem.Devices[devAddr]
			for _, n := range model.GroupNumbers(device.Groups) {
				g := device.Groups[strconv.Itoa(n)]
				if !g.Responder {
					continue
				}
				add(devAddr, n, g.Name)
			}
		}
	}
	return candidates
}

// ExclusionFor maps a page target to the responder pair it must not link
// to itself. Pages without a group segment fall back to the target's
// implicit group: 1 for modems, the base group for devices.
func (c *Cache) ExclusionFor(target, group string) Ref {
	if target == "" {
		return Ref{}
	}
	if group != "" {
		if n, err := strconv.Atoi(group); err == nil {
			return Ref{DeviceID: target, Group: n}
		}
	}
	snap := c.Snapshot()
	if _, ok := snap[target]; ok {
		return Ref{DeviceID: target, Group: 1}
	}
	for _, addr := range snap.ModemAddresses() {
		if device, ok := snap[addr].Devices[target]; ok {
			base := device.BaseGroup
			if base == 0 {
				base = 1
			}
			return Ref{DeviceID: target, Group: base}
		}
	}
	return Ref{DeviceID: target, Group: 1}
}

// Modem returns the modem record for an address.
func (c *Cache) Modem(addr string) (model.Modem, bool) {
	m, ok := c.Snapshot()[addr]
	return m, ok
}

// Device returns a device record under a modem.
func (c *Cache) Device(modemAddr, deviceAddr string) (model.Device, bool) {
	modem, ok := c.Snapshot()[modemAddr]
	if !ok {
		return model.Device{}, false
	}
	d, ok := modem.Devices[deviceAddr]
	return d, ok
}
