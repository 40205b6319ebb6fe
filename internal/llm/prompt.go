package llm

import (
	"strings"

	"supplierx/internal/domain"
)

// SupplierFields are the fields the model is asked to return. They are a hint, not a
// contract: the response parser keeps whatever keys come back.
var SupplierFields = []string{
	"supplier name",
	"contact details",
	"product listings",
	"pricing",
}

// BuildSupplierPrompt returns the extraction prompt for one file.
// The content is appended verbatim; nothing is escaped, so a document can steer the
// model. The parser still rejects anything that is not a JSON object.
func BuildSupplierPrompt(content domain.ExtractedContent, mediaType string) string {
	var b strings.Builder
	b.WriteString("Extract supplier information from this ")
	b.WriteString(mediaType)
	b.WriteString(" content.\n")
	b.WriteString("Return a JSON object with exactly these keys: ")
	for i, f := range SupplierFields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(`"` + f + `"`)
	}
	b.WriteString(".\n")
	b.WriteString("Return ONLY the raw JSON object with no markdown formatting and no explanation.\n")
	b.WriteString("Content: ")
	b.WriteString(content.Text)
	return b.String()
}
