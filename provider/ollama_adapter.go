package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// ollamaAdapter implements Adapter for a locally hosted Ollama server.
// No credential is required; the endpoint defaults to localhost and is
// the one adapter whose base URL is routinely overridden.
type ollamaAdapter struct {
	baseURL string
	http    *httpClient
}

func newOllamaAdapter(baseURL string) *ollamaAdapter {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &ollamaAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClient(),
	}
}

func (a *ollamaAdapter) Name() string { return ProviderOllama }

// Complete sends a blocking request to /api/generate with streaming
// disabled, so the answer arrives as a single JSON object.
func (a *ollamaAdapter) Complete(ctx context.Context, req Request) (string, error) {
	body := map[string]interface{}{
		"model":  req.Model,
		"prompt": req.User,
		"stream": false,
	}
	if req.System != "" {
		body["system"] = req.System
	}

	options := map[string]interface{}{}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}
	if req.Temperature > 0 {
		options["temperature"] = req.Temperature
	}
	if len(options) > 0 {
		body["options"] = options
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", &APIError{Provider: a.Name(), Message: "failed to encode request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/api/generate", bytes.NewReader(data))
	if err != nil {
		return "", connectivityError(a.Name(), err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

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

// parseResponse extracts the single response string field.
func (a *ollamaAdapter) parseResponse(r io.Reader) (string, error) {
	bodyBytes, err := io.ReadAll(r)
	if err != nil {
		return "", connectivityError(a.Name(), err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(bodyBytes, &raw); err != nil {
		return "", &APIError{Provider: a.Name(), Message: "failed to parse response JSON", Cause: err}
	}

	text, ok := raw["response"].(string)
	if !ok || strings.TrimSpace(text) == "" {
		return "", emptyResponseError(a.Name())
	}
	return text, nil
}
