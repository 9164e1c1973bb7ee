package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPClient talks to the roster backend over its REST API.
type HTTPClient struct {
	endpointURL string
	http        *http.Client
}

// NewRosterClient constructs an HTTPClient for the backend at endpointURL.
// The URL must carry a scheme, e.g. "http://127.0.0.1:8080"; a trailing
// slash is tolerated. Every request is bounded by timeout.
func NewRosterClient(endpointURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		endpointURL: strings.TrimRight(endpointURL, "/"),
		http:        &http.Client{Timeout: timeout},
	}
}

// get performs a GET request against path and returns the response body.
// Transport failures map to ErrUnavailable; any status other than 200 OK
// maps to ErrUnexpectedStatus.
func (c *HTTPClient) get(ctx context.Context, path string) ([]byte, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrUnavailable
	}

	return body, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {

	body, err := c.get(ctx, "/healthz")
	if err != nil {
		return err
	}

	var status struct {
		OK bool `json:"ok"`
	}
	if err := json.Unmarshal(body, &status); err != nil {
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, body)
	}

	if !status.OK {
		return ErrUnavailable
	}

	return nil
}

// PublicKey fetches the server's signature verification key as PEM text.
func (c *HTTPClient) PublicKey(ctx context.Context) (string, error) {

	body, err := c.get(ctx, "/api/public-key")
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// FetchExport downloads the binary roster snapshot.
func (c *HTTPClient) FetchExport(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/api/users/export")
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
