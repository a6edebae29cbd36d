package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// RefreshPath is the refresh endpoint relative to the API base URL.
const RefreshPath = "/token/refresh/"

// Refresher exchanges a refresh token for a new access token. A new refresh
// token is returned when the server rotates them, empty otherwise.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (access, refresh string, err error)
}

// HTTPRefresher calls POST {base}/token/refresh/.
type HTTPRefresher struct {
	endpoint  string
	transport http.RoundTripper
}

// NewHTTPRefresher builds a refresher for the API rooted at baseURL. The
// transport must not be a Pipeline: the refresh call never carries the
// access token and is never itself refreshed.
func NewHTTPRefresher(baseURL string, transport http.RoundTripper) *HTTPRefresher {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &HTTPRefresher{
		endpoint:  strings.TrimRight(baseURL, "/") + RefreshPath,
		transport: transport,
	}
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

func (r *HTTPRefresher) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	body, err := json.Marshal(refreshRequest{Refresh: refreshToken})
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrRefreshFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.transport.RoundTrip(req)
	if err != nil {
		return "", "", transportFailure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", "", &RefreshError{StatusCode: resp.StatusCode, Body: b}
	}

	var out refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", fmt.Errorf("%w: decode response: %w", ErrRefreshFailure, err)
	}
	if out.Access == "" {
		return "", "", fmt.Errorf("%w: response has no access token", ErrRefreshFailure)
	}

	return out.Access, out.Refresh, nil
}
