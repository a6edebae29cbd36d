package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/logging"
	"github.com/google/uuid"
)

// Middleware is a standard net/http middleware.
type Middleware func(http.Handler) http.Handler

type ctxKey string

const (
	userIDKey    ctxKey = "userID"
	requestIDKey ctxKey = "requestID"
)

// Authenticator resolves an access token to a user id.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (string, error)
}

// userIDFromContext returns the id stored by AuthBearer.
func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// statusWriter captures the status code for the access log.
type statusWriter struct {
	http.ResponseWriter
	status int
	count  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.count += n
	return n, err
}

// RequestID keeps the caller's X-Request-ID or assigns a new uuid, and echoes
// it on the response.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(common.RequestIDHeaderName)
			if id == "" {
				id = uuid.NewString()
				r.Header.Set(common.RequestIDHeaderName, id)
			}
			w.Header().Set(common.RequestIDHeaderName, id)

			ctx := context.WithValue(r.Context(), requestIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Logging writes one access log line per request.
func Logging(l logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(sw, r)

			rid, _ := r.Context().Value(requestIDKey).(string)
			l.Info(r.Context(), "http",
				"request_id", rid,
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"dur", time.Since(start),
				"bytes", sw.count,
			)
		})
	}
}

// Recover turns a panic into a 500 without leaking details to the client.
func Recover(l logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					l.Error(r.Context(), "panic", "path", r.URL.Path, "reason", rec)
					writeDetail(w, http.StatusInternalServerError, "A server error occurred.", "")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// AuthBearer rejects requests without a valid access token with 401 and
// stores the user id in the context otherwise.
func AuthBearer(a Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get(common.AuthorizationHeaderName), common.BearerPrefix)
			token = strings.TrimSpace(token)
			if !ok || token == "" {
				writeDetail(w, http.StatusUnauthorized, msgNoCredentials, codeNotAuthenticated)
				return
			}

			userID, err := a.Authenticate(r.Context(), token)
			if err != nil {
				writeDetail(w, http.StatusUnauthorized, msgTokenNotValid, codeTokenNotValid)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
