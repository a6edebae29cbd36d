package pipeline

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrTransportFailure = errors.New("transport failure")
	ErrAuthExpired      = errors.New("authentication expired")
	ErrRefreshFailure   = errors.New("token refresh failed")
)

// RefreshError describes a non-2xx answer from the refresh endpoint.
type RefreshError struct {
	StatusCode int
	Body       []byte
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refresh endpoint answered %d: %s", e.StatusCode, string(e.Body))
}

func (e *RefreshError) Unwrap() error { return ErrRefreshFailure }

func transportFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrTransportFailure, err)
}

func authExpired(req *http.Request, reason string) error {
	return fmt.Errorf("%w: %s %s: %s", ErrAuthExpired, req.Method, req.URL.Path, reason)
}
