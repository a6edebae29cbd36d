// Package services contains application services for the propkeeper client.
// This file defines the authentication service: login, logout, liveness
// probe and the local session status.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/propkeeper/internal/client/client"
	"github.com/dmitrijs2005/propkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/propkeeper/internal/client/repositories/records"
	"github.com/dmitrijs2005/propkeeper/internal/client/session"
	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: exchange credentials for a token pair and start the session.
//   - Logout: revoke the refresh token (best effort) and end the session.
//   - Ping: check server liveness.
//   - Status: describe the local session without calling the server.
//   - LastUsername: the username of the previous successful login, if any.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) error
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Status(ctx context.Context) Status
	LastUsername(ctx context.Context) string
}

// Status is a snapshot of the local session.
type Status struct {
	LoggedIn  bool
	Username  string
	UserID    string
	ExpiresAt time.Time
	// Expired is true once the access token is past its exp claim; the
	// next call refreshes it.
	Expired bool
}

type authService struct {
	client   client.Client
	session  *session.Session
	metadata metadata.Repository
	cache    records.Repository
	logger   logging.Logger
	now      func() time.Time
}

// NewAuthService constructs an AuthService. cache may be nil.
func NewAuthService(c client.Client, s *session.Session, md metadata.Repository, cache records.Repository, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.Discard()
	}
	a := &authService{
		client:   c,
		session:  s,
		metadata: md,
		cache:    cache,
		logger:   logger.With("component", "auth"),
		now:      time.Now,
	}
	if s != nil && cache != nil {
		s.OnTerminated(func(ctx context.Context, _ error) { a.clearCache(ctx) })
	}
	return a
}

// Login authenticates against the server and persists the new pair. The
// username is remembered for the next prompt. Cached records of another
// user are dropped.
func (a *authService) Login(ctx context.Context, username string, password []byte) error {
	pair, err := a.client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	if prev := a.LastUsername(ctx); prev != username {
		a.clearCache(ctx)
	}

	if err := a.session.Init(ctx, pair); err != nil {
		return fmt.Errorf("session start error: %w", err)
	}

	if err := a.metadata.Set(ctx, common.UsernameKey, []byte(username)); err != nil {
		a.logger.Warn(ctx, "username not saved", "error", err)
	}
	a.logger.Info(ctx, "logged in", "username", logging.RedactUsername(username))
	return nil
}

// Logout asks the server to blacklist the refresh token, then clears the
// session whatever the server said. Only a local failure is returned.
//
// An expired access token makes the logout call refresh first, which
// rotates the refresh token it carries. The rotated one is sent again.
func (a *authService) Logout(ctx context.Context) error {
	sent := a.session.RefreshToken()
	err := a.client.Logout(ctx, sent)
	if cur := a.session.RefreshToken(); err == nil && cur != "" && cur != sent {
		a.logger.Debug(ctx, "refresh token rotated during logout, revoking the new one")
		err = a.client.Logout(ctx, cur)
	}
	if err != nil {
		a.logger.Warn(ctx, "server logout failed, clearing locally", "error", err)
	}

	var errs []error
	if err := a.session.Teardown(ctx); err != nil {
		errs = append(errs, err)
	}
	if a.cache != nil {
		if err := a.cache.Clear(ctx); err != nil {
			errs = append(errs, fmt.Errorf("clear cache: %w", err))
		}
	}
	return errors.Join(errs...)
}

// clearCache drops every cached record. Failures are logged only.
func (a *authService) clearCache(ctx context.Context) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Clear(ctx); err != nil {
		a.logger.Warn(ctx, "records cache not cleared", "error", err)
	}
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Status(ctx context.Context) Status {
	pair := a.session.Pair()
	if pair.Access == "" {
		return Status{}
	}

	st := Status{LoggedIn: true, Username: a.LastUsername(ctx)}
	info, err := session.Inspect(pair.Access)
	if err != nil {
		a.logger.Debug(ctx, "access token not inspectable", "error", err)
		return st
	}
	st.UserID = info.UserID
	st.ExpiresAt = info.ExpiresAt
	st.Expired = session.Expired(pair.Access, a.now())
	return st
}

func (a *authService) LastUsername(ctx context.Context) string {
	v, err := a.metadata.Get(ctx, common.UsernameKey)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			a.logger.Warn(ctx, "username not loaded", "error", err)
		}
		return ""
	}
	return string(v)
}
