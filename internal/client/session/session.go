package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/propkeeper/internal/logging"
)

// ErrEmptyAccessToken is returned by Init when the pair has no access token.
var ErrEmptyAccessToken = errors.New("empty access token")

// TerminatedFunc is notified when the session ends involuntarily.
type TerminatedFunc func(ctx context.Context, cause error)

type Session struct {
	store  Store
	logger logging.Logger

	mu           sync.RWMutex
	pair         Pair
	onTerminated []TerminatedFunc
}

// New creates a Session and loads whatever pair the store already holds.
// A nil logger discards.
func New(ctx context.Context, store Store, logger logging.Logger) (*Session, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	pair, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Session{
		store:  store,
		logger: logger.With("component", "session"),
		pair:   pair,
	}, nil
}

// Pair returns a copy of the current pair.
func (s *Session) Pair() Pair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair
}

func (s *Session) AccessToken() string {
	return s.Pair().Access
}

func (s *Session) RefreshToken() string {
	return s.Pair().Refresh
}

// Active reports whether an access token is held.
func (s *Session) Active() bool {
	return s.AccessToken() != ""
}

// Init replaces the pair after a successful login.
func (s *Session) Init(ctx context.Context, p Pair) error {
	if p.Access == "" {
		return ErrEmptyAccessToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(ctx, p); err != nil {
		return fmt.Errorf("persist credentials: %w", err)
	}
	s.pair = p
	s.logger.Info(ctx, "session started")
	return nil
}

// Rotate installs a refreshed access token. An empty refresh keeps the
// current refresh token, as servers without rotation return only "access".
//
// The in-memory pair is updated even if persisting fails; the error is
// returned so the caller can report it.
func (s *Session) Rotate(ctx context.Context, access, refresh string) error {
	if access == "" {
		return ErrEmptyAccessToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := Pair{Access: access, Refresh: refresh}
	if next.Refresh == "" {
		next.Refresh = s.pair.Refresh
	}
	s.pair = next
	if err := s.store.Save(ctx, next); err != nil {
		return fmt.Errorf("persist rotated credentials: %w", err)
	}
	return nil
}

// Teardown clears the pair from memory and from the store.
func (s *Session) Teardown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = Pair{}
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// OnTerminated registers fn to run after Terminate.
func (s *Session) OnTerminated(fn TerminatedFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTerminated = append(s.onTerminated, fn)
}

// Terminate tears the session down and notifies the registered callbacks
// with cause. Callbacks run after the lock is released, so they may use
// the Session.
func (s *Session) Terminate(ctx context.Context, cause error) error {
	err := s.Teardown(ctx)

	s.mu.RLock()
	callbacks := append([]TerminatedFunc(nil), s.onTerminated...)
	s.mu.RUnlock()

	s.logger.Warn(ctx, "session terminated", "cause", cause)
	for _, fn := range callbacks {
		fn(ctx, cause)
	}
	return err
}
