package greenleaf

import (
	"cmp"
	"strconv"
	"time"

	"leafdesk/frontend/shared/workflow"
	"leafdesk/infrastructure/leafreport"
	"leafdesk/models"
)

const (
	msgListFail  = "Failed to load green leaf records."
	msgFetchFail = "Failed to fetch leaves."
	msgNoExport  = "No data available to export."
	msgSlipFail  = "Failed to build delivery slip."

	// DisplayLayout is how transaction timestamps are shown.
	DisplayLayout = "January 2, 2006, 03:04 PM"
)

// formatWhen renders a transaction timestamp in loc; unparseable values are
// shown as received.
func formatWhen(s string, loc *time.Location) string {
	t, ok := leafreport.ParseLeafDate(s, loc)
	if !ok {
		return s
	}
	return t.In(loc).Format(DisplayLayout)
}

var sortableColumns = map[string]workflow.Column[models.GreenLeaf]{
	"id": func(a, b models.GreenLeaf) int {
		an, aerr := strconv.ParseInt(a.TrNo.String(), 10, 64)
		bn, berr := strconv.ParseInt(b.TrNo.String(), 10, 64)
		if aerr == nil && berr == nil {
			return cmp.Compare(an, bn)
		}
		return cmp.Compare(a.TrNo.String(), b.TrNo.String())
	},
}

// DetailRow is one labelled value of the transaction dialog and slip.
type DetailRow struct {
	Label string
	Value string
}

func detailRows(g models.GreenLeaf, loc *time.Location) []DetailRow {
	raw := g.Raw.Text
	return []DetailRow{
		{"Date", formatWhen(g.Date, loc)},
		{"Supplier", g.Supplier.String()},
		{"No of Stock", g.NoofSacks.String()},
		{"Total", leafreport.Fixed2(g.TotalKg)},
		{"Sacks Weight", leafreport.Fixed2(g.SacksWeight)},
		{"sw", raw("sw")},
		{"swds", raw("swds")},
		{"bw", raw("bw")},
		{"bwds", raw("bwds")},
		{"swent", raw("swent")},
		{"Water", leafreport.Fixed2(g.Water)},
		{"coastLeaf", raw("coastLeaf")},
		{"Other", raw("other")},
		{"return", raw("return")},
		{"Net Qty", leafreport.Fixed2(g.NetQty)},
		{"gltodate", raw("gltodate")},
		{"leafCat", raw("leafCat")},
		{"dwsgltrNo", raw("dwsgltrNo")},
		{"entTime", formatWhen(g.EntTime, loc)},
		{"entDate", formatWhen(g.EntDate, loc)},
	}
}

// Row is one transaction in the report table.
type Row struct {
	TrNo        string
	Date        string
	Supplier    string
	NoofSacks   string
	TotalKg     string
	SacksWeight string
	Water       string
	NetQty      string
	Complete    bool
	ViewURL     string
	SlipURL     string
}

type SortLink struct {
	Label  string
	URL    string
	Active bool
	Dir    workflow.Direction
}

type PageLink struct {
	Label   string
	URL     string
	Current bool
}

// DialogData is the transaction detail dialog.
type DialogData struct {
	Title    string
	Complete bool
	Detail   []DetailRow
	SlipURL  string
	CloseURL string
}

type GreenLeafPageData struct {
	From       string
	To         string
	Rows       []Row
	Filtered   int
	NetTotal   string
	IDHeader   SortLink
	Pages      []PageLink
	SizeLinks  []PageLink
	ExportURL  string
	HistoryURL string
	LoadFailed bool
	Dialog     *DialogData
}
