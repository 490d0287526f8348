package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnthropicAdapter(t *testing.T, handler http.HandlerFunc) (*anthropicAdapter, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	return newAnthropicAdapter("test-key", server.URL), server
}

func TestAnthropicAdapterComplete(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		body, _ := io.ReadAll(r.Body)
		var reqBody map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &reqBody))

		// System prompt rides in the top-level field, not the messages.
		assert.Equal(t, "You are helpful.", reqBody["system"])
		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 1)
		// max_tokens is mandatory and defaulted when unset.
		assert.Equal(t, float64(4096), reqBody["max_tokens"])

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []interface{}{
				map[string]interface{}{"type": "text", "text": "Hello from "},
				map[string]interface{}{"type": "text", "text": "Anthropic!"},
			},
			"stop_reason": "end_turn",
		})
	}

	adapter, server := newTestAnthropicAdapter(t, handler)
	defer server.Close()

	text, err := adapter.Complete(context.Background(), Request{
		Model:  "claude-sonnet-4-5",
		System: "You are helpful.",
		User:   "Hi",
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello from Anthropic!", text)
}

func TestAnthropicAdapterEmptyContent(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []interface{}{},
		})
	}

	adapter, server := newTestAnthropicAdapter(t, handler)
	defer server.Close()

	_, err := adapter.Complete(context.Background(), Request{Model: "claude-sonnet-4-5", User: "Hi"})

	var emptyErr *EmptyResponseError
	require.ErrorAs(t, err, &emptyErr)
	assert.Contains(t, err.Error(), "no generated text")
}

func TestAnthropicAdapterErrorEnvelope(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"type": "error",
			"error": map[string]interface{}{
				"type":    "rate_limit_error",
				"message": "Number of requests has exceeded your rate limit",
			},
		})
	}

	adapter, server := newTestAnthropicAdapter(t, handler)
	defer server.Close()

	_, err := adapter.Complete(context.Background(), Request{Model: "claude-sonnet-4-5", User: "Hi"})

	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Contains(t, rateErr.Message, "exceeded your rate limit")
}
