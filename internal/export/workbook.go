package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"supplierx/internal/domain"
)

// Workbook renders results as an xlsx workbook with a single sheet. Row 1 holds the
// column headers taken from the first record; each following row is one record in
// result order. Returns domain.ErrEmptyResult when results is empty.
func Workbook(results domain.BatchResult) ([]byte, error) {
	columns, rows, err := tableRows(results)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, SheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return nil, fmt.Errorf("resolving header range: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", lastHeader, bold); err != nil {
		return nil, fmt.Errorf("styling header: %w", err)
	}

	for i, row := range rows {
		values := make([]interface{}, len(row))
		for j, raw := range row {
			values[j] = cellValue(raw)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("resolving row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encoding workbook: %w", err)
	}
	return buf.Bytes(), nil
}
