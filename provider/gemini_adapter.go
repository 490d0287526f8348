package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// geminiAdapter implements Adapter for the Gemini generateContent API.
type geminiAdapter struct {
	apiKey  string
	baseURL string
	http    *httpClient
}

func newGeminiAdapter(apiKey, baseURL string) *geminiAdapter {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	return &geminiAdapter{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClient(),
	}
}

func (a *geminiAdapter) Name() string { return ProviderGemini }

// Complete sends a blocking request to the Gemini API. The model is part
// of the URL path, the system prompt rides in systemInstruction, and the
// generation parameters live under generationConfig.
func (a *geminiAdapter) Complete(ctx context.Context, req Request) (string, error) {
	body := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role":  "user",
				"parts": []map[string]interface{}{{"text": req.User}},
			},
		},
	}
	if req.System != "" {
		body["systemInstruction"] = map[string]interface{}{
			"parts": []map[string]interface{}{{"text": req.System}},
		}
	}

	genConfig := map[string]interface{}{}
	if req.MaxTokens > 0 {
		genConfig["maxOutputTokens"] = req.MaxTokens
	}
	if req.Temperature > 0 {
		genConfig["temperature"] = req.Temperature
	}
	if len(genConfig) > 0 {
		body["generationConfig"] = genConfig
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", &APIError{Provider: a.Name(), Message: "failed to encode request", Cause: err}
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", a.baseURL, req.Model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(data))
	if err != nil {
		return "", connectivityError(a.Name(), err)
	}
	httpReq.Header.Set("x-goog-api-key", a.apiKey)
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

// parseResponse extracts candidates[0].content.parts[*].text.
func (a *geminiAdapter) parseResponse(r io.Reader) (string, error) {
	bodyBytes, err := io.ReadAll(r)
	if err != nil {
		return "", connectivityError(a.Name(), err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(bodyBytes, &raw); err != nil {
		return "", &APIError{Provider: a.Name(), Message: "failed to parse response JSON", Cause: err}
	}

	candidates, ok := raw["candidates"].([]interface{})
	if !ok || len(candidates) == 0 {
		return "", emptyResponseError(a.Name())
	}
	candidate, ok := candidates[0].(map[string]interface{})
	if !ok {
		return "", emptyResponseError(a.Name())
	}
	content, ok := candidate["content"].(map[string]interface{})
	if !ok {
		return "", emptyResponseError(a.Name())
	}
	parts, ok := content["parts"].([]interface{})
	if !ok || len(parts) == 0 {
		return "", emptyResponseError(a.Name())
	}

	var sb strings.Builder
	for _, part := range parts {
		if partMap, ok := part.(map[string]interface{}); ok {
			if text, ok := partMap["text"].(string); ok {
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
