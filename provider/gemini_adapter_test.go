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

func TestGeminiAdapterComplete(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Contains(t, r.URL.Path, "/v1beta/models/gemini-2.0-flash:generateContent")
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		body, _ := io.ReadAll(r.Body)
		var reqBody map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &reqBody))

		sysInst, ok := reqBody["systemInstruction"].(map[string]interface{})
		require.True(t, ok)
		parts := sysInst["parts"].([]interface{})
		require.Len(t, parts, 1)

		genConfig, ok := reqBody["generationConfig"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(1024), genConfig["maxOutputTokens"])

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []interface{}{
				map[string]interface{}{
					"content": map[string]interface{}{
						"role": "model",
						"parts": []interface{}{
							map[string]interface{}{"text": "Hello from Gemini!"},
						},
					},
					"finishReason": "STOP",
				},
			},
		})
	}

	server := httptest.NewServer(http.HandlerFunc(handler))
	defer server.Close()
	adapter := newGeminiAdapter("test-key", server.URL)

	text, err := adapter.Complete(context.Background(), Request{
		Model:     "gemini-2.0-flash",
		System:    "You are helpful.",
		User:      "Hi",
		MaxTokens: 1024,
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello from Gemini!", text)
}

func TestGeminiAdapterNoCandidates(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
	}

	server := httptest.NewServer(http.HandlerFunc(handler))
	defer server.Close()
	adapter := newGeminiAdapter("test-key", server.URL)

	_, err := adapter.Complete(context.Background(), Request{Model: "gemini-2.0-flash", User: "Hi"})

	var emptyErr *EmptyResponseError
	require.ErrorAs(t, err, &emptyErr)
}
