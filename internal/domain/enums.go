package domain

import (
	"mime"
	"path/filepath"
	"strings"
)

// Media types the service recognizes by name.
const (
	MediaTypePDF  = "application/pdf"
	MediaTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MediaTypeXLS  = "application/vnd.ms-excel"
	MediaTypeCSV  = "text/csv"
)

// AllowedExtensions maps file extensions (without dot) to the media type assumed when
// the client did not declare one. Legacy .xls is left out because BIFF workbooks
// cannot be decoded.
var AllowedExtensions = map[string]string{
	"pdf":  MediaTypePDF,
	"xlsx": MediaTypeXLSX,
	"csv":  MediaTypeCSV,
}

// ResolveMediaType returns the declared media type without parameters. When nothing
// useful was declared, the type is looked up from the file extension, and
// application/octet-stream is returned if that fails too.
func ResolveMediaType(declared, filename string) string {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
		return mt
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if mt, ok := AllowedExtensions[ext]; ok {
		return mt
	}
	return "application/octet-stream"
}

// IsSpreadsheet reports whether a declared media type names a spreadsheet workbook.
func IsSpreadsheet(mediaType string) bool {
	mt := strings.ToLower(mediaType)
	return strings.Contains(mt, "spreadsheet") || strings.Contains(mt, "excel")
}

// IsCSV reports whether a declared media type names CSV text.
func IsCSV(mediaType string) bool {
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case MediaTypeCSV, "application/csv", "text/comma-separated-values":
		return true
	}
	return false
}

// IsPDF reports whether a declared media type names a PDF document.
func IsPDF(mediaType string) bool {
	return strings.EqualFold(strings.TrimSpace(mediaType), MediaTypePDF)
}

// ContentFormat describes how ExtractedContent.Text was produced.
type ContentFormat string

const (
	ContentFormatCSV         ContentFormat = "csv"
	ContentFormatText        ContentFormat = "text"
	ContentFormatPlaceholder ContentFormat = "placeholder"
	ContentFormatEmpty       ContentFormat = "empty"
)

// ErrorKind classifies a per-file failure.
type ErrorKind string

const (
	ErrorKindTransport         ErrorKind = "transport"
	ErrorKindUpstream          ErrorKind = "upstream"
	ErrorKindMalformedResponse ErrorKind = "malformed_response"
	ErrorKindEmptyContent      ErrorKind = "empty_content"
	ErrorKindExtraction        ErrorKind = "extraction"
	ErrorKindCanceled          ErrorKind = "canceled"
	ErrorKindInternal          ErrorKind = "internal"
)

// EmptyContentPolicy decides what happens when a file yields no usable content.
type EmptyContentPolicy string

const (
	// EmptyContentFail records a RunError and skips the model call.
	EmptyContentFail EmptyContentPolicy = "fail"
	// EmptyContentDegrade calls the model anyway and keeps whatever it returns.
	EmptyContentDegrade EmptyContentPolicy = "degrade"
)

// ParseEmptyContentPolicy returns the policy named by s, defaulting to EmptyContentFail.
func ParseEmptyContentPolicy(s string) EmptyContentPolicy {
	if EmptyContentPolicy(strings.ToLower(strings.TrimSpace(s))) == EmptyContentDegrade {
		return EmptyContentDegrade
	}
	return EmptyContentFail
}
