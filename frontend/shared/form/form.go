package form

import (
	"net/url"
	"strings"
)

// RequiredSummary is shown when a submit is blocked by missing fields.
const RequiredSummary = "Please fill out all required fields."

// Field describes one input of a record form.
type Field struct {
	Label       string
	Name        string
	Type        string // text, email, date, number, password, radio
	Placeholder string
	// Numeric fields only accept an empty value or ASCII digits.
	Numeric        bool
	NumericMessage string
	ReadOnly       bool
	Options        []Option
}

// Option is one choice of a radio field.
type Option struct {
	Label string
	Value string
}

// Draft holds in-progress form values and their inline errors.
type Draft struct {
	Fields []Field
	Values map[string]string
	Errors map[string]string
}

// NewDraft starts a draft from initial values.
func NewDraft(fields []Field, initial map[string]string) *Draft {
	d := &Draft{
		Fields: fields,
		Values: make(map[string]string, len(fields)),
		Errors: make(map[string]string),
	}
	for k, v := range initial {
		d.Values[k] = v
	}
	return d
}

func (d *Draft) field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Set stores raw for name. A numeric field rejects anything but an empty
// value or digits: the previous value is kept and the field error is set.
// An accepted value clears the field error. Set reports acceptance.
func (d *Draft) Set(name, raw string) bool {
	f, ok := d.field(name)
	if ok && f.ReadOnly {
		return false
	}
	if ok && f.Numeric && !IsNumeric(raw) {
		msg := f.NumericMessage
		if msg == "" {
			msg = "Please enter numbers only."
		}
		d.Errors[name] = msg
		return false
	}
	d.Values[name] = raw
	delete(d.Errors, name)
	return true
}

// Apply calls Set for every declared field present in the posted form.
func (d *Draft) Apply(posted url.Values) {
	for _, f := range d.Fields {
		if vals, ok := posted[f.Name]; ok && len(vals) > 0 {
			d.Set(f.Name, vals[0])
		}
	}
}

// Require records message for name when its value is blank.
func (d *Draft) Require(name, message string) {
	if strings.TrimSpace(d.Values[name]) == "" {
		if _, exists := d.Errors[name]; !exists {
			d.Errors[name] = message
		}
	}
}

// Valid reports whether no field has an error.
func (d *Draft) Valid() bool {
	return len(d.Errors) == 0
}

func (d *Draft) Value(name string) string { return d.Values[name] }

func (d *Draft) Error(name string) string { return d.Errors[name] }

// IsNumeric reports whether s is empty or only ASCII digits.
func IsNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
