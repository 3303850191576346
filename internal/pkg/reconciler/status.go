package reconciler

import "github.com/anicoll/insteon-panel/internal/pkg/model"

const (
	classOK   = "status-ok"
	classWarn = "status-warn"
)

// Buttons flags which actions a row exposes. Templates render only what
// is set, so visibility rules live here, not in markup.
type Buttons struct {
	Edit      bool
	Cancel    bool
	Save      bool
	Fix       bool
	Delete    bool
	Import    bool
	AddDevice bool
	Create    bool
}

func statusClass(s model.LinkStatus) string {
	switch {
	case s == model.StatusWorking:
		return classOK
	case s.NeedsFix():
		return classWarn
	default:
		return ""
	}
}

// definedButtons maps a defined-link row's status and edit state to its
// visible actions. Working rows expose nothing: edit and delete are hidden
// and fix only appears on rows that need it.
func definedButtons(s model.LinkStatus, editing bool) Buttons {
	if editing {
		return Buttons{Cancel: true, Save: true}
	}
	switch {
	case s == model.StatusWorking:
		return Buttons{}
	case s.NeedsFix():
		return Buttons{Fix: true, Edit: true, Delete: true}
	default:
		return Buttons{Edit: true, Delete: true}
	}
}
