// Package leafreport filters green-leaf transactions by date and writes the
// spreadsheet export shared by the dashboard and the leafreport command.
package leafreport

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"leafdesk/models"
)

const (
	SheetName = "Filtered Data"
	FileName  = "GreenLeaf_Report.xlsx"

	// DayLayout is the format of the from/to query values.
	DayLayout = "2006-01-02"
)

var leafDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	DayLayout,
}

// ParseLeafDate reads a transaction timestamp. Values without an offset are
// taken to be in loc.
func ParseLeafDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range leafDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Range is an inclusive calendar-day window in a display location.
type Range struct {
	From time.Time
	To   time.Time
	Loc  *time.Location
}

// Today is the window covering the current day in loc.
func Today(now time.Time, loc *time.Location) Range {
	return NewRange(now.In(loc), now.In(loc), loc)
}

// NewRange spans from 00:00:00.000 of from's day to 23:59:59.999 of to's day.
func NewRange(from, to time.Time, loc *time.Location) Range {
	f := from.In(loc)
	t := to.In(loc)
	return Range{
		From: time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, loc),
		To:   time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), loc),
		Loc:  loc,
	}
}

// ParseRange reads YYYY-MM-DD bounds. A blank or malformed bound falls back
// to today.
func ParseRange(from, to string, now time.Time, loc *time.Location) Range {
	today := now.In(loc)
	day := func(s string) time.Time {
		d, err := time.ParseInLocation(DayLayout, strings.TrimSpace(s), loc)
		if err != nil {
			return today
		}
		return d
	}
	return NewRange(day(from), day(to), loc)
}

func (r Range) FromDay() string { return r.From.Format(DayLayout) }
func (r Range) ToDay() string   { return r.To.Format(DayLayout) }

// Contains reports whether t falls within the window, both ends included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// Filter keeps the transactions dated inside r. Records with a missing or
// unparseable date are dropped.
func Filter(items []models.GreenLeaf, r Range) []models.GreenLeaf {
	out := make([]models.GreenLeaf, 0, len(items))
	for _, g := range items {
		t, ok := ParseLeafDate(g.Date, r.Loc)
		if !ok {
			continue
		}
		if r.Contains(t) {
			out = append(out, g)
		}
	}
	return out
}

// Amount parses a weight or quantity; blanks and junk count as zero.
func Amount(v models.FlexString) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(v.String()))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Fixed2 formats a weight with two decimals. Non-numeric values are shown as
// received.
func Fixed2(v models.FlexString) string {
	d, ok := Amount(v)
	if !ok {
		return v.String()
	}
	return d.StringFixed(2)
}

// NetTotal sums netQty over items.
func NetTotal(items []models.GreenLeaf) decimal.Decimal {
	total := decimal.Zero
	for _, g := range items {
		if d, ok := Amount(g.NetQty); ok {
			total = total.Add(d)
		}
	}
	return total
}
