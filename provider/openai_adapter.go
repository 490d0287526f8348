package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// openAIAdapter implements Adapter for the OpenAI Chat Completions API.
type openAIAdapter struct {
	apiKey  string
	baseURL string
	http    *httpClient
}

func newOpenAIAdapter(apiKey, baseURL string) *openAIAdapter {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	return &openAIAdapter{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClient(),
	}
}

func (a *openAIAdapter) Name() string { return ProviderOpenAI }

// Complete sends a blocking request to the Chat Completions API.
func (a *openAIAdapter) Complete(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(chatCompletionBody(req))
	if err != nil {
		return "", &APIError{Provider: a.Name(), Message: "failed to encode request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", connectivityError(a.Name(), err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(httpReq)
	if err != nil {
		return "", connectivityError(a.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errorFromResponse(resp, a.Name())
	}

	return parseChatCompletion(resp.Body, a.Name())
}

// chatCompletionBody builds the OpenAI-shaped request body. Groq shares
// this wire format.
func chatCompletionBody(req Request) map[string]interface{} {
	messages := []map[string]interface{}{}
	if req.System != "" {
		messages = append(messages, map[string]interface{}{
			"role":    "system",
			"content": req.System,
		})
	}
	messages = append(messages, map[string]interface{}{
		"role":    "user",
		"content": req.User,
	})

	body := map[string]interface{}{
		"model":    req.Model,
		"messages": messages,
	}
	if req.MaxTokens > 0 {
		body["max_tokens"] = req.MaxTokens
	}
	if req.Temperature > 0 {
		body["temperature"] = req.Temperature
	}
	return body
}

// parseChatCompletion extracts choices[0].message.content from an
// OpenAI-shaped response envelope.
func parseChatCompletion(r io.Reader, name string) (string, error) {
	bodyBytes, err := io.ReadAll(r)
	if err != nil {
		return "", connectivityError(name, err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(bodyBytes, &raw); err != nil {
		return "", &APIError{Provider: name, Message: "failed to parse response JSON", Cause: err}
	}

	choices, ok := raw["choices"].([]interface{})
	if !ok || len(choices) == 0 {
		return "", emptyResponseError(name)
	}
	choice, ok := choices[0].(map[string]interface{})
	if !ok {
		return "", emptyResponseError(name)
	}
	message, ok := choice["message"].(map[string]interface{})
	if !ok {
		return "", emptyResponseError(name)
	}
	content, ok := message["content"].(string)
	if !ok || strings.TrimSpace(content) == "" {
		return "", emptyResponseError(name)
	}
	return content, nil
}
