package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// anthropicAdapter implements Adapter for the Anthropic Messages API.
type anthropicAdapter struct {
	apiKey  string
	baseURL string
	http    *httpClient
}

func newAnthropicAdapter(apiKey, baseURL string) *anthropicAdapter {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	return &anthropicAdapter{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClient(),
	}
}

func (a *anthropicAdapter) Name() string { return ProviderAnthropic }

// Complete sends a blocking request to the Messages API. The system prompt
// rides in the top-level system field, never in the messages array.
func (a *anthropicAdapter) Complete(ctx context.Context, req Request) (string, error) {
	// max_tokens is required for Anthropic
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	body := map[string]interface{}{
		"model":      req.Model,
		"max_tokens": maxTokens,
		"messages": []map[string]interface{}{
			{"role": "user", "content": req.User},
		},
	}
	if req.System != "" {
		body["system"] = req.System
	}
	if req.Temperature > 0 {
		body["temperature"] = req.Temperature
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", &APIError{Provider: a.Name(), Message: "failed to encode request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/v1/messages", bytes.NewReader(data))
	if err != nil {
		return "", connectivityError(a.Name(), err)
	}
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")
	httpReq.Header.Set("content-type", "application/json")

	resp, err := a.http.Do(httpReq)
	if err != nil {
		return "", connectivityError(a.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errorFromResponse(resp, a.Name())
	}

	return a.parseResponse(resp.Body)
}

// parseResponse extracts the concatenated text blocks from the Messages
// API envelope: {"content": [{"type": "text", "text": ...}, ...]}.
func (a *anthropicAdapter) parseResponse(r io.Reader) (string, error) {
	bodyBytes, err := io.ReadAll(r)
	if err != nil {
		return "", connectivityError(a.Name(), err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(bodyBytes, &raw); err != nil {
		return "", &APIError{Provider: a.Name(), Message: "failed to parse response JSON", Cause: err}
	}

	content, ok := raw["content"].([]interface{})
	if !ok || len(content) == 0 {
		return "", emptyResponseError(a.Name())
	}

	var sb strings.Builder
	for _, block := range content {
		blockMap, ok := block.(map[string]interface{})
		if !ok {
			continue
		}
		if blockMap["type"] == "text" {
			if text, ok := blockMap["text"].(string); ok {
				sb.WriteString(text)
			}
		}
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", emptyResponseError(a.Name())
	}
	return text, nil
}
