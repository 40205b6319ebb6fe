package port

import (
	"context"
	"encoding/json"
)

// DocumentAnalyzer abstracts a cloud document-analysis service.
type DocumentAnalyzer interface {
	// AnalyzeTables runs table-structure analysis and returns the service's response
	// as JSON, unchanged.
	AnalyzeTables(ctx context.Context, document []byte) (json.RawMessage, error)
	// AnalyzeText returns the detected text lines of the document in page order.
	// Implementations backed by synchronous Textract accept single-page documents only.
	AnalyzeText(ctx context.Context, document []byte) (string, error)
}
