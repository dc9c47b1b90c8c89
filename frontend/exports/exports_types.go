package exports

// TypeGreenLeafXLSX is the export_type of the green-leaf workbook.
const TypeGreenLeafXLSX = "green_leaf_xlsx"

const historyLimit = 50

type RunRow struct {
	CreatedAt string
	Type      string
	From      string
	To        string
	RowCount  int
	FileName  string
	// AgainURL downloads the same range again.
	AgainURL string
}

type PageData struct {
	Runs       []RunRow
	LoadFailed bool
}
