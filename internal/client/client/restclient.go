package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/propkeeper/internal/client/models"
	"github.com/dmitrijs2005/propkeeper/internal/client/pipeline"
	"github.com/dmitrijs2005/propkeeper/internal/client/session"
	"github.com/dmitrijs2005/propkeeper/internal/logging"
)

const (
	loginPath  = "token/"
	logoutPath = "users/logout/"
	healthPath = "/health/"

	defaultUserAgent = "propkeeper-cli"
	maxErrorBody     = 8 << 10
)

type Options struct {
	// BaseURL is the API root, e.g. http://127.0.0.1:8000/api.
	BaseURL string
	Timeout time.Duration
	// UserAgent defaults to "propkeeper-cli".
	UserAgent string
	// Transport is the network transport; http.DefaultTransport when nil.
	Transport http.RoundTripper
	Logger    logging.Logger
}

// RESTClient implements Client over HTTP. Calls on resources carry the
// session's access token; Login and Ping never do.
type RESTClient struct {
	base   *url.URL
	authed *http.Client
	public *http.Client
	logger logging.Logger
}

var _ Client = (*RESTClient)(nil)

func NewRESTClient(opts Options, sess *session.Session) (*RESTClient, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", opts.BaseURL)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	identity := &pipeline.IdentityTransport{Wrapped: transport, UserAgent: ua}
	refresher := pipeline.NewHTTPRefresher(opts.BaseURL, identity)
	plOpts := []pipeline.Option{pipeline.WithLogger(logger)}
	if opts.Timeout > 0 {
		plOpts = append(plOpts, pipeline.WithRefreshTimeout(opts.Timeout))
	}
	pl := pipeline.New(transport, sess, refresher, plOpts...)

	return &RESTClient{
		base:   base,
		authed: &http.Client{Transport: &pipeline.IdentityTransport{Wrapped: pl, UserAgent: ua}, Timeout: opts.Timeout},
		public: &http.Client{Transport: identity, Timeout: opts.Timeout},
		logger: logger.With("component", "restclient"),
	}, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login exchanges credentials for a token pair. Wrong credentials yield
// ErrUnauthorized.
func (c *RESTClient) Login(ctx context.Context, username string, password []byte) (session.Pair, error) {
	var out tokenPair
	err := c.doJSON(ctx, c.public, http.MethodPost, c.resolve(loginPath), loginRequest{Username: username, Password: string(password)}, &out)
	if err != nil {
		var herr *HTTPError
		if errors.As(err, &herr) && herr.StatusCode == http.StatusUnauthorized {
			return session.Pair{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		return session.Pair{}, err
	}
	if out.Access == "" {
		return session.Pair{}, fmt.Errorf("login: response has no access token")
	}
	return session.Pair{Access: out.Access, Refresh: out.Refresh}, nil
}

// Logout asks the server to blacklist refreshToken.
func (c *RESTClient) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	body := map[string]string{"refresh_token": refreshToken}
	return c.doJSON(ctx, c.authed, http.MethodPost, c.resolve(logoutPath), body, nil)
}

// Ping probes GET /health/ at the server root, unauthenticated.
func (c *RESTClient) Ping(ctx context.Context) error {
	return c.doJSON(ctx, c.public, http.MethodGet, c.base.ResolveReference(&url.URL{Path: healthPath}), nil, nil)
}

// List fetches one page (1-based) of c.
func (c *RESTClient) List(ctx context.Context, col models.Collection, page int) (*models.Page[json.RawMessage], error) {
	u := c.resolve(string(col) + "/")
	if page > 1 {
		u.RawQuery = url.Values{"page": {strconv.Itoa(page)}}.Encode()
	}
	var out models.Page[json.RawMessage]
	if err := c.doJSON(ctx, c.authed, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RESTClient) Get(ctx context.Context, col models.Collection, id int64) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, c.authed, http.MethodGet, c.item(col, id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RESTClient) Create(ctx context.Context, col models.Collection, body any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, c.authed, http.MethodPost, c.resolve(string(col)+"/"), body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RESTClient) Delete(ctx context.Context, col models.Collection, id int64) error {
	return c.doJSON(ctx, c.authed, http.MethodDelete, c.item(col, id), nil, nil)
}

func (c *RESTClient) resolve(path string) *url.URL {
	return c.base.ResolveReference(&url.URL{Path: path})
}

func (c *RESTClient) item(col models.Collection, id int64) *url.URL {
	return c.resolve(string(col) + "/" + strconv.FormatInt(id, 10) + "/")
}

// doJSON sends in (when non-nil) as JSON and decodes a 2xx body into out
// (when non-nil). Non-2xx answers become *HTTPError.
func (c *RESTClient) doJSON(ctx context.Context, hc *http.Client, method string, u *url.URL, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return classify(ctx, err)
	}
	defer resp.Body.Close()

	c.logger.Debug(ctx, "api call", "method", method, "path", u.Path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{StatusCode: resp.StatusCode, Method: method, Path: u.Path, Body: bytes.TrimSpace(b)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, u.Path, err)
	}
	return nil
}

func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, pipeline.ErrAuthExpired):
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
}
