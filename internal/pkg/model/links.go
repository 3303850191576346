package model

import "strings"

type LinkStatus string

const (
	StatusNone    LinkStatus = ""
	StatusWorking LinkStatus = "Working"
	StatusBroken  LinkStatus = "Broken"
	StatusFailed  LinkStatus = "Failed"
	StatusNotify  LinkStatus = "Notify"
)

func (s LinkStatus) String() string {
	return string(s)
}

// ParseLinkStatus normalises a wire status tag. Unrecognised tags are
// preserved as-is so they still render, just without special styling.
func ParseLinkStatus(raw string) LinkStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return StatusNone
	case "working":
		return StatusWorking
	case "broken":
		return StatusBroken
	case "failed":
		return StatusFailed
	case "notify":
		return StatusNotify
	}
	return LinkStatus(raw)
}

// NeedsFix reports whether the status exposes the fix action and the
// warning highlight.
func (s LinkStatus) NeedsFix() bool {
	return s == StatusBroken || s == StatusFailed || s == StatusNotify
}

// Link is one responder relationship as reported by the hub. A nil Data1
// marks a device the hub has seen but not yet linked.
type Link struct {
	ResponderID    string     `json:"responder_id"`
	ResponderGroup int        `json:"responder_group"`
	Data1          *int       `json:"data_1"`
	Data2          *int       `json:"data_2"`
	Status         LinkStatus `json:"status,omitempty"`
}

// LinkTables is the hub's partition of links for one page scope. The panel
// never recomputes the partition, only renders it.
type LinkTables struct {
	Defined   map[string]Link `json:"definedLinks"`
	Undefined map[string]Link `json:"undefinedLinks"`
	Unknown   map[string]Link `json:"unknownLinks"`
}

// Bucket names one of the hub's three link partitions, spelled the way
// the API spells them in paths and payload keys.
type Bucket string

const (
	BucketDefined   Bucket = "definedLinks"
	BucketUndefined Bucket = "undefinedLinks"
	BucketUnknown   Bucket = "unknownLinks"
)

func (b Bucket) String() string {
	return string(b)
}

func ParseBucket(raw string) (Bucket, bool) {
	switch Bucket(raw) {
	case BucketDefined, BucketUndefined, BucketUnknown:
		return Bucket(raw), true
	}
	return "", false
}

// StatusUpdate is one observed link status transition, fanned out to
// registered publishers.
type StatusUpdate struct {
	Modem          string     `json:"modem"`
	UID            string     `json:"uid"`
	ResponderID    string     `json:"responder_id"`
	ResponderGroup int        `json:"responder_group"`
	Status         LinkStatus `json:"status"`
}

// LinkRef identifies a link for publisher registration.
type LinkRef struct {
	Modem          string
	UID            string
	ResponderID    string
	ResponderGroup int
}
