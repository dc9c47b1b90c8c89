package leafreport

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"leafdesk/models"
)

func decodeLeaves(t *testing.T, body string) []models.GreenLeaf {
	t.Helper()
	var out []models.GreenLeaf
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("decode green leaf: %v", err)
	}
	return out
}

func TestParseRangeDefaultsToToday(t *testing.T) {
	loc := time.FixedZone("LKT", 5*3600+1800)
	now := time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC) // 01:30 on the 10th in LKT

	r := ParseRange("", "not-a-date", now, loc)
	if r.FromDay() != "2024-03-10" || r.ToDay() != "2024-03-10" {
		t.Fatalf("expected today in display zone, got %s..%s", r.FromDay(), r.ToDay())
	}
	if r.To.Nanosecond() != int(999*time.Millisecond) || r.To.Hour() != 23 {
		t.Fatalf("expected end of day bound, got %s", r.To)
	}
}

func TestFilterIsInclusiveAndDropsBadDates(t *testing.T) {
	items := decodeLeaves(t, `[
		{"trNo":1,"date":"2024-01-05T00:00:00"},
		{"trNo":2,"date":"2024-01-06T23:59:59.999"},
		{"trNo":3,"date":"2024-01-07T00:00:00"},
		{"trNo":4,"date":"yesterday"},
		{"trNo":5,"date":null},
		{"trNo":6,"date":"2024-01-04T23:59:59"},
		{"trNo":7,"date":"2024-01-04T23:59:59.999"}
	]`)

	r := ParseRange("2024-01-05", "2024-01-06", time.Now(), time.UTC)
	got := Filter(items, r)
	if len(got) != 2 || got[0].TrNo.String() != "1" || got[1].TrNo.String() != "2" {
		t.Fatalf("unexpected filter result: %+v", got)
	}
}

func TestFilterHonoursOffsets(t *testing.T) {
	items := decodeLeaves(t, `[{"trNo":1,"date":"2024-01-05T22:00:00Z"}]`)
	loc := time.FixedZone("LKT", 5*3600+1800)

	if n := len(Filter(items, ParseRange("2024-01-06", "2024-01-06", time.Now(), loc))); n != 1 {
		t.Fatalf("expected utc evening to land on next local day, got %d", n)
	}
	if n := len(Filter(items, ParseRange("2024-01-05", "2024-01-05", time.Now(), loc))); n != 0 {
		t.Fatalf("expected no match on the utc day, got %d", n)
	}
}

func TestFixed2AndNetTotal(t *testing.T) {
	items := decodeLeaves(t, `[{"netQty":12.5},{"netQty":"7.255"},{"netQty":""}]`)
	if got := Fixed2(items[0].NetQty); got != "12.50" {
		t.Fatalf("expected 12.50, got %q", got)
	}
	if got := Fixed2("n/a"); got != "n/a" {
		t.Fatalf("expected raw text for non-numeric, got %q", got)
	}
	if got := NetTotal(items).StringFixed(2); got != "19.76" {
		t.Fatalf("expected 19.76, got %s", got)
	}
}

func TestWriteXLSXUsesRawFieldsInFirstSeenOrder(t *testing.T) {
	items := decodeLeaves(t, `[
		{"trNo":1,"date":"2024-01-05T08:00:00","netQty":10.5,"complete":true},
		{"trNo":2,"date":"2024-01-05T09:00:00","leafCat":"A"}
	]`)

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, items); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	if list := f.GetSheetList(); len(list) != 1 || list[0] != SheetName {
		t.Fatalf("unexpected sheets %v", list)
	}
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and two rows, got %d", len(rows))
	}
	wantHeader := []string{"trNo", "date", "netQty", "complete", "leafCat"}
	for i, h := range wantHeader {
		if rows[0][i] != h {
			t.Fatalf("header %d: expected %q, got %q", i, h, rows[0][i])
		}
	}
	if rows[1][0] != "1" || rows[1][2] != "10.5" || rows[1][3] != "TRUE" {
		t.Fatalf("unexpected first row %v", rows[1])
	}
	if rows[2][4] != "A" {
		t.Fatalf("unexpected second row %v", rows[2])
	}
}

func TestWriteXLSXKeepsLongIntegerDigits(t *testing.T) {
	items := decodeLeaves(t, `[{"trNo":9007199254740993,"accountNo":12345678901234567890,"noofSacks":4}]`)

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, items); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "9007199254740993" || rows[1][1] != "12345678901234567890" || rows[1][2] != "4" {
		t.Fatalf("unexpected rows %v", rows)
	}
}
