package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplierx/internal/config"
	"supplierx/internal/llm"
	"supplierx/internal/llm/openai"
)

func newTestClient(serverURL string) *openai.Client {
	cfg := &config.LLMConfig{
		Model:       "gpt-4",
		TimeoutSecs: 5,
	}
	return openai.NewClientWithEndpoint(cfg, serverURL)
}

func TestClient_Complete_Success(t *testing.T) {
	respBody := `{"choices":[{"message":{"role":"assistant","content":"{\"supplier name\":\"Acme\"}"},"finish_reason":"stop"}]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)
		assert.Equal(t, "gpt-4", reqBody["model"])
		assert.Equal(t, 0.7, reqBody["temperature"])

		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 1)
		msg := messages[0].(map[string]interface{})
		assert.Equal(t, "user", msg["role"])
		assert.Equal(t, "extract this", msg["content"])

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(respBody))
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	raw, err := c.Complete(context.Background(), "extract this", "sk-test")

	require.NoError(t, err)
	assert.JSONEq(t, respBody, string(raw))
}

func TestClient_Complete_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	raw, err := c.Complete(context.Background(), "p", "bad-key")

	assert.Nil(t, raw)
	var upErr *llm.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusUnauthorized, upErr.StatusCode)
	assert.Contains(t, upErr.Body, "Incorrect API key")
}

func TestClient_Complete_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "20")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit exceeded"}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	_, err := c.Complete(context.Background(), "p", "sk-test")

	var upErr *llm.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusTooManyRequests, upErr.StatusCode)
	assert.Equal(t, 20*time.Second, upErr.RetryAfter)
}

func TestClient_Complete_SingleAttempt(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	_, err := c.Complete(context.Background(), "p", "sk-test")

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestClient_Complete_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := newTestClient(url)

	_, err := c.Complete(context.Background(), "p", "sk-test")

	var tErr *llm.TransportError
	assert.True(t, errors.As(err, &tErr))
}

func TestClient_Complete_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Complete(ctx, "p", "sk-test")

	var tErr *llm.TransportError
	require.True(t, errors.As(err, &tErr))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClient_Defaults(t *testing.T) {
	c := openai.NewClient(&config.LLMConfig{})

	assert.Equal(t, "gpt-4", c.Model())
}
