package llm

import (
	"encoding/json"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"supplierx/internal/domain"
)

// envelopeSchema describes the only part of a chat-completion response the pipeline
// relies on: choices[0].message.content as a string.
const envelopeSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["choices"],
  "properties": {
    "choices": {
      "type": "array",
      "minItems": 1,
      "prefixItems": [
        {
          "type": "object",
          "required": ["message"],
          "properties": {
            "message": {
              "type": "object",
              "required": ["content"],
              "properties": {
                "content": {"type": "string"}
              }
            }
          }
        }
      ]
    }
  }
}`

var envelopeSchema = jsonschema.MustCompileString("completion_envelope.json", envelopeSchemaJSON)

// completionEnvelope models the chat-completion response fields we read.
type completionEnvelope struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// ParseCompletion extracts the record from a raw chat-completion response body.
// Only JSON well-formedness of the content is checked; field names and value types
// are passed through unchanged.
func ParseCompletion(raw []byte) (domain.Record, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Record{}, newMalformed("response body is not valid JSON", string(raw), err)
	}
	if err := envelopeSchema.Validate(doc); err != nil {
		return domain.Record{}, newMalformed("unexpected response envelope", string(raw), err)
	}

	var env completionEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return domain.Record{}, newMalformed("unexpected response envelope", string(raw), err)
	}

	return ParseContent(env.Choices[0].Message.Content)
}

// ParseContent decodes the model's message content into a record.
func ParseContent(content string) (domain.Record, error) {
	text := stripCodeFence(strings.TrimSpace(content))
	if !json.Valid([]byte(text)) {
		return domain.Record{}, newMalformed("content is not valid JSON", content, nil)
	}

	var rec domain.Record
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		return domain.Record{}, newMalformed("content is not a JSON object", content, err)
	}
	return rec, nil
}

// stripCodeFence removes one surrounding ``` or ```json fence.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		// drop the language tag line
		if tag := strings.TrimSpace(inner[:nl]); tag == "" || !strings.ContainsAny(tag, "{[") {
			inner = inner[nl+1:]
		}
	}
	return strings.TrimSpace(inner)
}
