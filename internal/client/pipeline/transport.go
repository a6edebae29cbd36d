package pipeline

import (
	"net/http"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/google/uuid"
)

// IdentityTransport stamps every request with a User-Agent and, unless the
// caller set one, a fresh X-Request-ID. Placed in front of a Pipeline, the
// replay after a refresh keeps the id of the original request.
type IdentityTransport struct {
	Wrapped   http.RoundTripper
	UserAgent string
}

func (t *IdentityTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone request to avoid mutating the original
	clone := req.Clone(req.Context())
	if t.UserAgent != "" {
		clone.Header.Set("User-Agent", t.UserAgent)
	}
	if clone.Header.Get(common.RequestIDHeaderName) == "" {
		clone.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	}

	next := t.Wrapped
	if next == nil {
		next = http.DefaultTransport
	}
	return next.RoundTrip(clone)
}
