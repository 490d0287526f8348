package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// huggingFaceAdapter implements Adapter for the Hugging Face Inference API.
// The API takes a single flat prompt rather than a messages array, and
// answers with an array of generation objects.
type huggingFaceAdapter struct {
	apiKey  string
	baseURL string
	http    *httpClient
}

func newHuggingFaceAdapter(apiKey, baseURL string) *huggingFaceAdapter {
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co"
	}
	return &huggingFaceAdapter{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClient(),
	}
}

func (a *huggingFaceAdapter) Name() string { return ProviderHuggingFace }

// Complete sends a blocking request to the Inference API. The system
// prompt is prepended to the user prompt since the API has no message
// roles.
func (a *huggingFaceAdapter) Complete(ctx context.Context, req Request) (string, error) {
	prompt := req.User
	if req.System != "" {
		prompt = req.System + "\n\n" + req.User
	}

	parameters := map[string]interface{}{
		"return_full_text": false,
	}
	if req.MaxTokens > 0 {
		parameters["max_new_tokens"] = req.MaxTokens
	}
	if req.Temperature > 0 {
		parameters["temperature"] = req.Temperature
	}

	body := map[string]interface{}{
		"inputs":     prompt,
		"parameters": parameters,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", &APIError{Provider: a.Name(), Message: "failed to encode request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/models/"+req.Model, bytes.NewReader(data))
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

	return a.parseResponse(resp.Body)
}

// parseResponse extracts [0].generated_text from the response array.
func (a *huggingFaceAdapter) parseResponse(r io.Reader) (string, error) {
	bodyBytes, err := io.ReadAll(r)
	if err != nil {
		return "", connectivityError(a.Name(), err)
	}

	var generations []map[string]interface{}
	if err := json.Unmarshal(bodyBytes, &generations); err != nil {
		return "", &APIError{Provider: a.Name(), Message: "failed to parse response JSON", Cause: err}
	}
	if len(generations) == 0 {
		return "", emptyResponseError(a.Name())
	}

	text, ok := generations[0]["generated_text"].(string)
	if !ok || strings.TrimSpace(text) == "" {
		return "", emptyResponseError(a.Name())
	}
	return text, nil
}
