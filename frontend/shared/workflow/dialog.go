package workflow

import (
	"net/url"
	"strings"
)

// DialogKind tags which dialog of a list screen is open.
type DialogKind int

const (
	DialogNone DialogKind = iota
	DialogCreate
	DialogView
	DialogEdit
)

func (k DialogKind) String() string {
	switch k {
	case DialogCreate:
		return "create"
	case DialogView:
		return "view"
	case DialogEdit:
		return "edit"
	default:
		return ""
	}
}

// Dialog is the single open dialog of a list screen. View and Edit carry the
// record id; None and Create never do.
type Dialog struct {
	Kind DialogKind
	ID   string
}

func None() Dialog          { return Dialog{} }
func Create() Dialog        { return Dialog{Kind: DialogCreate} }
func View(id string) Dialog { return Dialog{Kind: DialogView, ID: id} }
func Edit(id string) Dialog { return Dialog{Kind: DialogEdit, ID: id} }

// Open reports whether any dialog is shown.
func (d Dialog) Open() bool { return d.Kind != DialogNone }

func (d Dialog) Is(k DialogKind) bool { return d.Kind == k }

// ParseDialog reads ?dialog=create|view|edit&id=... . View and edit without
// an id, and unknown kinds, are DialogNone.
func ParseDialog(q url.Values) Dialog {
	id := strings.TrimSpace(q.Get("id"))
	switch strings.ToLower(strings.TrimSpace(q.Get("dialog"))) {
	case "create":
		return Create()
	case "view":
		if id != "" {
			return View(id)
		}
	case "edit":
		if id != "" {
			return Edit(id)
		}
	}
	return None()
}

// Encode writes the dialog into q, removing any previous dialog keys.
func (d Dialog) Encode(q url.Values) {
	q.Del("dialog")
	q.Del("id")
	if d.Kind == DialogNone {
		return
	}
	q.Set("dialog", d.Kind.String())
	if d.ID != "" && d.Kind != DialogCreate {
		q.Set("id", d.ID)
	}
}
