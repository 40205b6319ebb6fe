package export

import (
	"encoding/csv"
	"io"

	"supplierx/internal/domain"
)

// BOM is the UTF-8 byte order mark written ahead of CSV output for Excel compatibility.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes results to w as CSV with the same columns and rows as Workbook.
// Returns domain.ErrEmptyResult when results is empty.
func WriteCSV(w io.Writer, results domain.BatchResult) error {
	columns, rows, err := tableRows(results)
	if err != nil {
		return err
	}
	if _, err := w.Write(BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, len(row))
		for i, raw := range row {
			record[i] = cellText(raw)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
