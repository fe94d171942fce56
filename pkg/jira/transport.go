package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Transport issues singular HTTP requests against the JIRA instance. It owns
// the pooled HTTP client and the precomputed basic-auth header. It performs
// exactly one network attempt per Execute call and does not interpret status
// codes; retrying and classification live above it.
type Transport struct {
	baseURL    string
	authHeader string
	client     *http.Client
}

// NewTransport creates a Transport from the given config. The basic-auth
// header is computed once from email and API token.
func NewTransport(cfg Config) *Transport {
	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &Transport{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		authHeader: basicAuthHeader(cfg.Email, cfg.APIToken),
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
	}
}

// basicAuthHeader builds the Authorization header value for Atlassian basic
// auth: base64 of "email:token".
func basicAuthHeader(email, token string) string {
	raw := fmt.Sprintf("%s:%s", email, token)
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}

// Execute performs one attempt of the described request. A valid HTTP
// response, whatever its status, is returned as a RawResponse; only
// connection-level faults (timeout, DNS, TLS, reset) produce an error.
func (t *Transport) Execute(ctx context.Context, desc *RequestDescriptor) (*RawResponse, error) {
	url := t.baseURL + desc.Path
	if len(desc.Query) > 0 {
		url += "?" + desc.Query.Encode()
	}

	var bodyReader io.Reader
	if desc.Body != nil {
		payload, err := json.Marshal(desc.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, desc.Method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", t.authHeader)
	req.Header.Set("Accept", "application/json")
	if desc.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// Close releases pooled connections.
func (t *Transport) Close() {
	t.client.CloseIdleConnections()
}
