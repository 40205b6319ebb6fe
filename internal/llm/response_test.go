package llm_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplierx/internal/domain"
	"supplierx/internal/llm"
)

func completionBody(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"id": "chatcmpl-1",
		"choices": []map[string]interface{}{
			{
				"index": 0,
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
	})
	require.NoError(t, err)
	return body
}

func TestParseCompletion_FourFields(t *testing.T) {
	content := `{"supplier name":"Acme","contact details":"a@b.com","product listings":[],"pricing":{}}`

	rec, err := llm.ParseCompletion(completionBody(t, content))

	require.NoError(t, err)
	assert.Equal(t, []string{"supplier name", "contact details", "product listings", "pricing"}, rec.Keys())
	raw, ok := rec.Raw("supplier name")
	require.True(t, ok)
	assert.JSONEq(t, `"Acme"`, string(raw))
}

func TestParseCompletion_NotJSONContent(t *testing.T) {
	_, err := llm.ParseCompletion(completionBody(t, "I cannot help with that."))

	var malformed *llm.MalformedResponseError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "content is not valid JSON", malformed.Reason)
}

func TestParseCompletion_ExtraAndMistypedFieldsPassThrough(t *testing.T) {
	content := `{"supplier name":42,"pricing":"call us","rating":{"stars":5,"a":[1,2]}}`

	rec, err := llm.ParseCompletion(completionBody(t, content))

	require.NoError(t, err)
	assert.Equal(t, []string{"supplier name", "pricing", "rating"}, rec.Keys())
	raw, _ := rec.Raw("rating")
	assert.Equal(t, `{"stars":5,"a":[1,2]}`, string(raw))
}

func TestParseCompletion_CodeFence(t *testing.T) {
	content := "```json\n{\"supplier name\":\"Acme\"}\n```"

	rec, err := llm.ParseCompletion(completionBody(t, content))

	require.NoError(t, err)
	assert.Equal(t, []string{"supplier name"}, rec.Keys())
}

func TestParseCompletion_ContentNotObject(t *testing.T) {
	_, err := llm.ParseCompletion(completionBody(t, `["Acme"]`))

	var malformed *llm.MalformedResponseError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "content is not a JSON object", malformed.Reason)
	assert.ErrorIs(t, err, domain.ErrInvalidRecord)
}

func TestParseCompletion_EnvelopeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>gateway</html>`},
		{"no choices key", `{"object":"chat.completion"}`},
		{"empty choices", `{"choices":[]}`},
		{"missing message", `{"choices":[{"index":0}]}`},
		{"content not string", `{"choices":[{"message":{"content":{"a":1}}}]}`},
		{"content null", `{"choices":[{"message":{"content":null}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := llm.ParseCompletion([]byte(tt.body))

			var malformed *llm.MalformedResponseError
			assert.True(t, errors.As(err, &malformed), "expected MalformedResponseError, got %v", err)
		})
	}
}

func TestParseContent_PreservesKeyOrder(t *testing.T) {
	rec, err := llm.ParseContent(`{"z":1,"a":2,"m":3}`)

	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, rec.Keys())
}
