// Package export renders a batch result as a downloadable table.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"supplierx/internal/domain"
)

const (
	// Filename is the download name for a workbook export.
	Filename = "supplier_data.xlsx"
	// CSVFilename is the download name for a CSV export.
	CSVFilename = "supplier_data.csv"
	// SheetName is the name of the single sheet in a workbook export.
	SheetName = "Extracted Data"
)

// cellValue converts a raw JSON value into a value excelize can write.
// Strings, numbers and booleans keep their type; null becomes an empty cell;
// objects and arrays are written as compact JSON text. Integers a float64 cannot
// hold exactly (long phone or account numbers) are written as their digits.
func cellValue(raw json.RawMessage) interface{} {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	switch raw[0] {
	case 'n':
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			return b
		}
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err == nil {
			return buf.String()
		}
	default:
		s := string(raw)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			if !strings.ContainsAny(s, ".eE") && strconv.FormatFloat(f, 'f', -1, 64) != s {
				return s
			}
			return f
		}
	}
	return string(raw)
}

// cellText converts a raw JSON value into CSV cell text.
func cellText(raw json.RawMessage) string {
	switch v := cellValue(raw).(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return string(bytes.TrimSpace(raw))
	default:
		return ""
	}
}

// tableRows returns the header and one row per record, keyed by the first record's
// columns. Keys absent from a record yield empty cells; keys absent from the first
// record are not exported.
func tableRows(results domain.BatchResult) ([]string, [][]json.RawMessage, error) {
	if len(results) == 0 {
		return nil, nil, domain.ErrEmptyResult
	}
	columns := results.Columns()
	if len(columns) == 0 {
		return nil, nil, fmt.Errorf("%w: first record has no fields", domain.ErrInvalidRecord)
	}
	rows := make([][]json.RawMessage, 0, len(results))
	for _, rec := range results {
		row := make([]json.RawMessage, len(columns))
		for i, col := range columns {
			if raw, ok := rec.Raw(col); ok {
				row[i] = raw
			}
		}
		rows = append(rows, row)
	}
	return columns, rows, nil
}
