package provider

import (
	"net"
	"net/http"
	"strconv"
	"time"
)

// httpClient is a shared HTTP client wrapper with configurable timeouts.
type httpClient struct {
	client *http.Client
}

// newHTTPClient creates an HTTP client with default timeouts. Generation
// requests can legitimately take minutes, so the overall budget is generous
// while the connect path fails fast.
func newHTTPClient() *httpClient {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: 10 * time.Second, // connect timeout
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 120 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
	}
	return &httpClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   300 * time.Second, // request timeout
		},
	}
}

// Do executes an HTTP request.
func (hc *httpClient) Do(req *http.Request) (*http.Response, error) {
	return hc.client.Do(req)
}

// parseRetryAfter parses a Retry-After header value.
// Supports both seconds (integer) and HTTP-date formats.
func parseRetryAfter(value string) *float64 {
	if value == "" {
		return nil
	}

	// Try parsing as seconds (integer or float)
	if seconds, err := strconv.ParseFloat(value, 64); err == nil {
		return &seconds
	}

	// Try parsing as HTTP-date (RFC 1123 format)
	if t, err := time.Parse(time.RFC1123, value); err == nil {
		seconds := time.Until(t).Seconds()
		if seconds < 0 {
			seconds = 0
		}
		return &seconds
	}

	// Try RFC 850 format
	if t, err := time.Parse(time.RFC850, value); err == nil {
		seconds := time.Until(t).Seconds()
		if seconds < 0 {
			seconds = 0
		}
		return &seconds
	}

	return nil
}
