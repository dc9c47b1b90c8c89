package leafreport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"leafdesk/models"
)

// Columns returns the union of the records' field names in first-seen order.
func Columns(items []models.GreenLeaf) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, g := range items {
		for _, k := range g.Raw.Keys() {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	return cols
}

// BuildWorkbook lays out items on a single sheet: a header row of field
// names and one row of raw values per record.
func BuildWorkbook(items []models.GreenLeaf) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	cols := Columns(items)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, g := range items {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = g.Raw.Scalar(c)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f, nil
}

// WriteXLSX streams the workbook for items to w.
func WriteXLSX(w io.Writer, items []models.GreenLeaf) error {
	f, err := BuildWorkbook(items)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
