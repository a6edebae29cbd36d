package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/propkeeper/internal/client/session"
	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/logging"
	"golang.org/x/sync/singleflight"
)

const (
	refreshFlightKey      = "refresh"
	defaultRefreshTimeout = 30 * time.Second
	maxErrorBody          = 4 << 10
)

type retriedKey struct{}

// markRetried flags req's context as already replayed after a refresh.
func markRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedKey{}, true)
}

// Retried reports whether the request carrying ctx is a replay.
func Retried(ctx context.Context) bool {
	v, _ := ctx.Value(retriedKey{}).(bool)
	return v
}

type Pipeline struct {
	next           http.RoundTripper
	session        *session.Session
	refresher      Refresher
	logger         logging.Logger
	refreshTimeout time.Duration

	flights singleflight.Group
}

type Option func(*Pipeline)

func WithLogger(l logging.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithRefreshTimeout bounds one refresh call. The refresh runs detached
// from the context of the request that triggered it, so waiters are not
// failed by another caller's cancellation.
func WithRefreshTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.refreshTimeout = d }
}

// New wraps next. A nil next means http.DefaultTransport.
func New(next http.RoundTripper, s *session.Session, r Refresher, opts ...Option) *Pipeline {
	if next == nil {
		next = http.DefaultTransport
	}
	p := &Pipeline{
		next:           next,
		session:        s,
		refresher:      r,
		logger:         logging.Discard(),
		refreshTimeout: defaultRefreshTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "pipeline")
	return p
}

// RoundTrip implements http.RoundTripper.
func (p *Pipeline) RoundTrip(req *http.Request) (*http.Response, error) {
	return p.Send(req)
}

// Send forwards req with the current access token and handles a 401 as
// described in the package documentation. req itself is never modified.
func (p *Pipeline) Send(req *http.Request) (*http.Response, error) {
	getBody, err := rewindable(req)
	if err != nil {
		return nil, err
	}
	return p.send(req, getBody, p.session.AccessToken())
}

func (p *Pipeline) send(req *http.Request, getBody func() (io.ReadCloser, error), token string) (*http.Response, error) {
	ctx := req.Context()

	resp, err := p.forward(req, getBody, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	drain(resp)

	switch {
	case isRefreshCall(req):
		return nil, authExpired(req, "refresh endpoint rejected the credentials")
	case Retried(ctx):
		return nil, authExpired(req, "rejected again after refresh")
	}

	p.logger.Debug(ctx, "request unauthorized, refreshing", requestAttrs(req)...)
	fresh, err := p.awaitRefresh(ctx, token)
	if err != nil {
		return nil, err
	}

	return p.send(req.WithContext(markRetried(ctx)), getBody, fresh)
}

// forward sends a copy of req carrying token.
func (p *Pipeline) forward(req *http.Request, getBody func() (io.ReadCloser, error), token string) (*http.Response, error) {
	out := req.Clone(req.Context())
	body, err := getBody()
	if err != nil {
		return nil, err
	}
	out.Body = body
	out.GetBody = getBody
	if token != "" {
		out.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := p.next.RoundTrip(out)
	if err != nil {
		return nil, transportFailure(err)
	}
	return resp, nil
}

// awaitRefresh returns an access token newer than stale, joining the
// refresh in flight if there is one.
func (p *Pipeline) awaitRefresh(ctx context.Context, stale string) (string, error) {
	flight := p.flights.DoChan(refreshFlightKey, func() (any, error) {
		return p.refresh(context.WithoutCancel(ctx), stale)
	})

	select {
	case res := <-flight:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// refresh runs inside the single flight.
func (p *Pipeline) refresh(ctx context.Context, stale string) (string, error) {
	pair := p.session.Pair()
	if pair.Access != "" && pair.Access != stale {
		// rotated by a flight that finished after our request went out
		return pair.Access, nil
	}
	if pair.Refresh == "" {
		if !pair.Empty() {
			_ = p.session.Terminate(ctx, ErrAuthExpired)
		}
		return "", fmt.Errorf("%w: no refresh token stored", ErrAuthExpired)
	}

	ctx, cancel := context.WithTimeout(ctx, p.refreshTimeout)
	defer cancel()

	p.logger.Info(ctx, "refreshing access token")
	access, refresh, err := p.refresher.Refresh(ctx, pair.Refresh)
	if err != nil {
		if errors.Is(err, ErrTransportFailure) {
			p.logger.Warn(ctx, "token refresh unreachable, credentials kept", "error", err)
			return "", err
		}
		p.logger.Warn(ctx, "token refresh rejected, ending session", "error", err)
		if termErr := p.session.Terminate(ctx, err); termErr != nil {
			p.logger.Error(ctx, "clearing credentials failed", "error", termErr)
		}
		return "", fmt.Errorf("%w: %w", ErrAuthExpired, err)
	}

	if err := p.session.Rotate(ctx, access, refresh); err != nil {
		p.logger.Warn(ctx, "refreshed token not persisted", "error", err)
	}
	p.logger.Info(ctx, "access token refreshed", "rotated_refresh", refresh != "")
	return access, nil
}

// rewindable returns a function yielding a fresh copy of req's body for
// every attempt.
func rewindable(req *http.Request) (func() (io.ReadCloser, error), error) {
	if req.Body == nil || req.Body == http.NoBody {
		return func() (io.ReadCloser, error) { return http.NoBody, nil }, nil
	}
	if req.GetBody != nil {
		_ = req.Body.Close()
		return req.GetBody, nil
	}

	data, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, err
	}
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}, nil
}

func isRefreshCall(req *http.Request) bool {
	return strings.HasSuffix(req.URL.Path, RefreshPath)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
}

func requestAttrs(req *http.Request) []any {
	attrs := []any{"method", req.Method, "path", req.URL.Path}
	if id := req.Header.Get(common.RequestIDHeaderName); id != "" {
		attrs = append(attrs, "request_id", id)
	}
	return attrs
}
