// Package extractor turns uploaded documents into prompt-ready text.
package extractor

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"supplierx/internal/domain"
	"supplierx/internal/port"
)

// Extractor dispatches on a file's declared media type.
// Spreadsheets are rendered as CSV of their first sheet; CSV text labelled as a
// spreadsheet is passed through. PDFs go through the document
// analyzer when one is configured and otherwise yield a placeholder. Anything else
// yields empty content without an error.
type Extractor struct {
	analyzer port.DocumentAnalyzer
}

// New creates an Extractor. analyzer may be nil, in which case PDF extraction is a no-op.
func New(analyzer port.DocumentAnalyzer) *Extractor {
	return &Extractor{analyzer: analyzer}
}

// Extract produces the content for one file.
func (e *Extractor) Extract(ctx context.Context, file domain.FileInput) (domain.ExtractedContent, error) {
	switch {
	case domain.IsSpreadsheet(file.MediaType), domain.IsCSV(file.MediaType):
		text, err := tabularToCSV(file.Bytes)
		if err != nil {
			return domain.ExtractedContent{}, err
		}
		return domain.ExtractedContent{Text: text, Format: domain.ContentFormatCSV}, nil

	case domain.IsPDF(file.MediaType):
		if e.analyzer == nil {
			return domain.ExtractedContent{Format: domain.ContentFormatPlaceholder}, nil
		}
		text, err := e.analyzer.AnalyzeText(ctx, file.Bytes)
		if err != nil {
			return domain.ExtractedContent{}, fmt.Errorf("analyzing pdf: %w", err)
		}
		return domain.ExtractedContent{Text: text, Format: domain.ContentFormatText}, nil

	default:
		log.Printf("extractor.Extract: no extractor for %q (%s), returning empty content", file.Name, file.MediaType)
		return domain.ExtractedContent{Format: domain.ContentFormatEmpty}, nil
	}
}

var (
	zipMagic  = []byte("PK\x03\x04")
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	utf8BOM   = []byte{0xEF, 0xBB, 0xBF}
)

// errLegacyWorkbook is returned for BIFF (.xls) workbooks, which cannot be decoded.
var errLegacyWorkbook = fmt.Errorf("%w: legacy binary .xls workbook, save it as .xlsx or .csv", domain.ErrUnsupportedMedia)

// tabularToCSV sniffs the payload rather than trusting the label: browsers send
// application/vnd.ms-excel for plain .csv files.
func tabularToCSV(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return SheetToCSV(data)
	case bytes.HasPrefix(data, ole2Magic):
		return "", errLegacyWorkbook
	case utf8.Valid(data):
		return NormalizeCSV(data)
	default:
		return "", errors.New("unrecognized spreadsheet payload")
	}
}

// NormalizeCSV parses CSV text (leading BOM dropped, ragged rows and loose quotes
// accepted) and renders it the same way as a workbook sheet.
func NormalizeCSV(data []byte) (string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("reading csv: %w", err)
	}
	return renderRows(rows)
}

// SheetToCSV renders the first sheet (by workbook order) of an xlsx workbook as CSV.
// Rows and columns keep their sheet order; short rows are padded so every record has
// the width of the widest row.
func SheetToCSV(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return renderRows(rows)
}

func renderRows(rows [][]string) (string, error) {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		record := make([]string, width)
		copy(record, row)
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("writing csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("writing csv: %w", err)
	}
	return buf.String(), nil
}
