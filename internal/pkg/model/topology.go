package model

import (
	"sort"
	"strconv"
)

// Topology is the full hub snapshot keyed by modem address.
// Addresses are 6 hex digit strings, e.g. "1A2B3C".
type Topology map[string]Modem

type Modem struct {
	Name     string            `json:"name"`
	User     string            `json:"user"`
	Password string            `json:"password"`
	Address  string            `json:"address"`
	Port     int               `json:"port"`
	Groups   map[string]Group  `json:"groups"`
	Devices  map[string]Device `json:"devices"`
}

type Device struct {
	Name      string           `json:"name"`
	BaseGroup int              `json:"base_group"`
	Groups    map[string]Group `json:"groups"`
}

// Group is a numbered scene/channel on a modem or device. The two data
// descriptors drive the selectors shown for links targeting this group.
type Group struct {
	Name      string     `json:"name"`
	Responder bool       `json:"responder"`
	Data1     *DataField `json:"data_1"`
	Data2     *DataField `json:"data_2"`
}

// DataField enumerates the legal values for one link data byte.
type DataField struct {
	Name   string         `json:"name"`
	Values map[string]int `json:"values"`
}

// Labels returns the value labels sorted by their byte value, ties by label.
func (f *DataField) Labels() []string {
	if f == nil {
		return nil
	}
	labels := make([]string, 0, len(f.Values))
	for l := range f.Values {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		a, b := f.Values[labels[i]], f.Values[labels[j]]
		if a != b {
			return a < b
		}
		return labels[i] < labels[j]
	})
	return labels
}

// ModemAddresses returns the modem addresses in sorted order.
func (t Topology) ModemAddresses() []string {
	addrs := make([]string, 0, len(t))
	for a := range t {
		addrs = append(addrs, a)
	}
	sort.Strings(addrs)
	return addrs
}

// DeviceAddresses returns the modem's device addresses in sorted order.
func (m Modem) DeviceAddresses() []string {
	addrs := make([]string, 0, len(m.Devices))
	for a := range m.Devices {
		addrs = append(addrs, a)
	}
	sort.Strings(addrs)
	return addrs
}

// GroupNumbers returns declared group numbers in numeric order.
func GroupNumbers(groups map[string]Group) []int {
	nums := make([]int, 0, len(groups))
	for g := range groups {
		n, err := strconv.Atoi(g)
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}
