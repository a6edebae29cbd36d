package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPRefresher_Refresh(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantAccess  string
		wantRefresh string
		wantErr     error
	}{
		{"access only", http.StatusOK, `{"access":"A2"}`, "A2", "", nil},
		{"rotated", http.StatusOK, `{"access":"A2","refresh":"R2"}`, "A2", "R2", nil},
		{"rejected", http.StatusUnauthorized, `{"detail":"Token is blacklisted","code":"token_not_valid"}`, "", "", ErrRefreshFailure},
		{"server error", http.StatusBadGateway, `oops`, "", "", ErrRefreshFailure},
		{"malformed", http.StatusOK, `{"access":`, "", "", ErrRefreshFailure},
		{"no access", http.StatusOK, `{"refresh":"R2"}`, "", "", ErrRefreshFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBody refreshRequest
			var gotAuth, gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotAuth = r.Header.Get("Authorization")
				_ = json.NewDecoder(r.Body).Decode(&gotBody)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			r := NewHTTPRefresher(srv.URL+"/api/", srv.Client().Transport)
			access, refresh, err := r.Refresh(context.Background(), "R1")

			require.Equal(t, "/api/token/refresh/", gotPath)
			require.Equal(t, "R1", gotBody.Refresh)
			require.Empty(t, gotAuth, "refresh call carries no bearer token")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantAccess, access)
			require.Equal(t, tt.wantRefresh, refresh)
		})
	}
}

func TestHTTPRefresher_RejectedKeepsStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Token is invalid or expired"}`))
	}))
	defer srv.Close()

	_, _, err := NewHTTPRefresher(srv.URL, srv.Client().Transport).Refresh(context.Background(), "R1")

	var rerr *RefreshError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, http.StatusUnauthorized, rerr.StatusCode)
	require.Contains(t, string(rerr.Body), "invalid or expired")
}

func TestHTTPRefresher_Unreachable(t *testing.T) {
	dial := errors.New("dial tcp: connection refused")
	r := NewHTTPRefresher("http://api.invalid", roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, dial
	}))

	_, _, err := r.Refresh(context.Background(), "R1")
	require.ErrorIs(t, err, ErrTransportFailure)
	require.ErrorIs(t, err, dial)
	require.NotErrorIs(t, err, ErrRefreshFailure)
}

func TestIdentityTransport_KeepsCallerRequestID(t *testing.T) {
	var seen []string
	next := roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		seen = append(seen, r.Header.Get("X-Request-ID")+"|"+r.Header.Get("User-Agent"))
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: r}, nil
	})
	tr := &IdentityTransport{Wrapped: next, UserAgent: "propkeeper/1"}

	req, _ := http.NewRequest(http.MethodGet, "http://api.test/api/health/", nil)
	req.Header.Set("X-Request-ID", "fixed")
	_, err := tr.RoundTrip(req)
	require.NoError(t, err)

	plain, _ := http.NewRequest(http.MethodGet, "http://api.test/api/health/", nil)
	_, err = tr.RoundTrip(plain)
	require.NoError(t, err)

	require.Equal(t, "fixed|propkeeper/1", seen[0])
	require.Len(t, seen[1], len("00000000-0000-0000-0000-000000000000|propkeeper/1"))
	require.Empty(t, plain.Header.Get("X-Request-ID"), "caller's request is not modified")
}
