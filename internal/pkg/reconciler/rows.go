package reconciler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/anicoll/insteon-panel/internal/pkg/model"
	"github.com/anicoll/insteon-panel/internal/pkg/topology"
)

type RowKind int

const (
	// RowPopulated renders both data selectors from the responder's
	// group descriptors.
	RowPopulated RowKind = iota
	// RowNewDevice is the placeholder for a link whose device has not
	// been added yet, marked by a null data value.
	RowNewDevice
	// RowEmpty is the pinned template row that composes a new link.
	RowEmpty
	// RowAddress is an unknown-table row: an address plus actions.
	RowAddress
)

type Table struct {
	Bucket model.Bucket
	Title  string
	Rows   []Row
}

func (k RowKind) IsPopulated() bool { return k == RowPopulated }
func (k RowKind) IsNewDevice() bool { return k == RowNewDevice }
func (k RowKind) IsEmpty() bool     { return k == RowEmpty }
func (k RowKind) IsAddress() bool   { return k == RowAddress }

// FormID names the per-row form its controls post through. Selectors sit
// in other table cells and reference it via the form attribute.
func (r Row) FormID() string {
	if r.Kind == RowEmpty {
		return "row-new"
	}
	return "row-" + r.UID
}

type Row struct {
	Kind           RowKind
	UID            string
	Bucket         model.Bucket
	Status         model.LinkStatus
	StatusClass    string
	Editing        bool
	ResponderLabel string
	Responder      *Selector
	Address        string
	Data1          *Selector
	Data2          *Selector
	Link           model.Link
	Buttons        Buttons
}

type Selector struct {
	Name     string
	Label    string
	Disabled bool
	Options  []Option
}

type Option struct {
	Label    string
	Value    string
	Selected bool
}

// SelectedValue returns the value the selector currently carries, used
// for the hidden fields behind fix and import.
func (s *Selector) SelectedValue() string {
	if s == nil {
		return ""
	}
	for _, o := range s.Options {
		if o.Selected {
			return o.Value
		}
	}
	if len(s.Options) > 0 {
		return s.Options[0].Value
	}
	return ""
}

func (r *Reconciler) definedTable(in Input) Table {
	t := Table{Bucket: model.BucketDefined, Title: "Defined links"}
	for _, uid := range sortedUIDs(in.Tables.Defined) {
		link := in.Tables.Defined[uid]
		if link.Data1 == nil {
			t.Rows = append(t.Rows, newDeviceRow(uid, link))
			continue
		}
		t.Rows = append(t.Rows, r.populatedRow(uid, model.BucketDefined, link, in.EditUID == uid))
	}
	return t
}

func (r *Reconciler) undefinedTable(in Input, exclude topology.Ref) Table {
	t := Table{Bucket: model.BucketUndefined, Title: "Undefined links"}
	for _, uid := range sortedUIDs(in.Tables.Undefined) {
		t.Rows = append(t.Rows, r.populatedRow(uid, model.BucketUndefined, in.Tables.Undefined[uid], false))
	}
	// The add row is pinned to this table regardless of content.
	t.Rows = append(t.Rows, r.emptyRow(in, exclude))
	return t
}

func (r *Reconciler) unknownTable(in Input) Table {
	t := Table{Bucket: model.BucketUnknown, Title: "Unknown links"}
	for _, uid := range sortedUIDs(in.Tables.Unknown) {
		link := in.Tables.Unknown[uid]
		t.Rows = append(t.Rows, Row{
			Kind:        RowAddress,
			UID:         uid,
			Bucket:      model.BucketUnknown,
			Status:      link.Status,
			StatusClass: statusClass(link.Status),
			Address:     link.ResponderID,
			Link:        link,
			Buttons:     Buttons{AddDevice: true, Delete: true},
		})
	}
	return t
}

func (r *Reconciler) populatedRow(uid string, bucket model.Bucket, link model.Link, editing bool) Row {
	row := Row{
		Kind:           RowPopulated,
		UID:            uid,
		Bucket:         bucket,
		Status:         link.Status,
		StatusClass:    statusClass(link.Status),
		Editing:        editing,
		ResponderLabel: r.responderLabel(link),
		Link:           link,
	}

	// Only defined rows ever unlock their selectors.
	disabled := bucket != model.BucketDefined || !editing
	row.Data1, row.Data2 = r.dataSelectors(link, disabled)

	switch bucket {
	case model.BucketDefined:
		row.Buttons = definedButtons(link.Status, editing)
	case model.BucketUndefined:
		row.Buttons = Buttons{Import: true, Delete: true}
	}
	return row
}

func newDeviceRow(uid string, link model.Link) Row {
	return Row{
		Kind:        RowNewDevice,
		UID:         uid,
		Bucket:      model.BucketDefined,
		Status:      link.Status,
		StatusClass: statusClass(link.Status),
		Address:     link.ResponderID,
		Link:        link,
		Buttons:     Buttons{AddDevice: true, Delete: true},
	}
}

// emptyRow seeds the add-link form. The responder defaults to the first
// candidate in provider order; a responder query parameter re-renders the
// row around a different pick so its descriptors can load.
func (r *Reconciler) emptyRow(in Input, exclude topology.Ref) Row {
	row := Row{Kind: RowEmpty, Bucket: model.BucketUndefined}
	candidates := r.cache.ResponderCandidates(exclude)
	if len(candidates) == 0 {
		return row
	}

	selected := candidates[0]
	if in.Responder != "" {
		if c, ok := findCandidate(candidates, in.Responder); ok {
			selected = c
		}
	}

	row.Responder = &Selector{
		Name:  "responder",
		Label: "Responder",
		Options: lo.Map(candidates, func(c topology.Candidate, _ int) Option {
			return Option{
				Label:    fmt.Sprintf("%s (%s group %d)", c.Name, c.DeviceID, c.Group),
				Value:    c.Key(),
				Selected: c.Key() == selected.Key(),
			}
		}),
	}

	var d1, d2 *model.DataField
	if g, ok := r.cache.GroupData(selected.DeviceID, selected.Group); ok {
		d1, d2 = g.Data1, g.Data2
	}
	row.Data1 = defaultSelector("data_1", "Data 1", d1)
	row.Data2 = defaultSelector("data_2", "Data 2", d2)
	row.Buttons = Buttons{Create: true}
	return row
}

func findCandidate(candidates []topology.Candidate, key string) (topology.Candidate, bool) {
	return lo.Find(candidates, func(c topology.Candidate) bool {
		return c.Key() == key
	})
}

func (r *Reconciler) responderLabel(link model.Link) string {
	if g, ok := r.cache.GroupData(link.ResponderID, link.ResponderGroup); ok && g.Name != "" {
		return fmt.Sprintf("%s (%s group %d)", g.Name, link.ResponderID, link.ResponderGroup)
	}
	return fmt.Sprintf("%s group %d", link.ResponderID, link.ResponderGroup)
}

func (r *Reconciler) dataSelectors(link model.Link, disabled bool) (*Selector, *Selector) {
	var value1, value2 int
	if link.Data1 != nil {
		value1 = *link.Data1
	}
	if link.Data2 != nil {
		value2 = *link.Data2
	}

	var d1, d2 *model.DataField
	if g, ok := r.cache.GroupData(link.ResponderID, link.ResponderGroup); ok {
		d1, d2 = g.Data1, g.Data2
	}
	return valueSelector("data_1", "Data 1", d1, value1, disabled),
		valueSelector("data_2", "Data 2", d2, value2, disabled)
}

// valueSelector renders a descriptor with the stored value selected. A
// stored value outside the enumeration is appended verbatim so saving the
// row never silently rewrites it.
func valueSelector(name, fallbackLabel string, field *model.DataField, value int, disabled bool) *Selector {
	s := &Selector{Name: name, Label: fallbackLabel, Disabled: disabled}
	if field == nil {
		s.Options = []Option{{Label: strconv.Itoa(value), Value: strconv.Itoa(value), Selected: true}}
		return s
	}
	if field.Name != "" {
		s.Label = field.Name
	}
	found := false
	for _, label := range field.Labels() {
		v := field.Values[label]
		selected := !found && v == value
		if selected {
			found = true
		}
		s.Options = append(s.Options, Option{Label: label, Value: strconv.Itoa(v), Selected: selected})
	}
	if !found {
		s.Options = append(s.Options, Option{Label: strconv.Itoa(value), Value: strconv.Itoa(value), Selected: true})
	}
	return s
}

// defaultSelector renders a descriptor with its first entry selected,
// used by the add-link row.
func defaultSelector(name, fallbackLabel string, field *model.DataField) *Selector {
	s := &Selector{Name: name, Label: fallbackLabel}
	if field == nil {
		s.Options = []Option{{Label: "0", Value: "0", Selected: true}}
		return s
	}
	if field.Name != "" {
		s.Label = field.Name
	}
	for i, label := range field.Labels() {
		s.Options = append(s.Options, Option{
			Label:    label,
			Value:    strconv.Itoa(field.Values[label]),
			Selected: i == 0,
		})
	}
	return s
}

// ParseResponderKey splits an "address:group" form value.
func ParseResponderKey(key string) (string, int, bool) {
	id, grp, ok := strings.Cut(key, ":")
	if !ok || id == "" {
		return "", 0, false
	}
	n, err := strconv.Atoi(grp)
	if err != nil {
		return "", 0, false
	}
	return id, n, true
}
