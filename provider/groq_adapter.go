package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// groqAdapter implements Adapter for the Groq Chat Completions API, which
// is OpenAI-compatible on the wire but lives at its own endpoint.
type groqAdapter struct {
	apiKey  string
	baseURL string
	http    *httpClient
}

func newGroqAdapter(apiKey, baseURL string) *groqAdapter {
	if baseURL == "" {
		baseURL = "https://api.groq.com"
	}
	return &groqAdapter{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClient(),
	}
}

func (a *groqAdapter) Name() string { return ProviderGroq }

// Complete sends a blocking request to Groq's OpenAI-compatible endpoint.
func (a *groqAdapter) Complete(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(chatCompletionBody(req))
	if err != nil {
		return "", &APIError{Provider: a.Name(), Message: "failed to encode request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/openai/v1/chat/completions", bytes.NewReader(body))
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
