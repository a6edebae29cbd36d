package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	clientdb "github.com/dmitrijs2005/propkeeper/internal/client/db"
	"github.com/dmitrijs2005/propkeeper/internal/client/models"
	"github.com/dmitrijs2005/propkeeper/internal/client/session"
	"github.com/dmitrijs2005/propkeeper/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := clientdb.Open(context.Background(), filepath.Join(t.TempDir(), "propkeeper.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newSession(t *testing.T, db *sql.DB, pair session.Pair) *session.Session {
	t.Helper()
	ctx := context.Background()
	store := session.NewSQLiteStore(db)
	if !pair.Empty() {
		require.NoError(t, store.Save(ctx, pair))
	}
	s, err := session.New(ctx, store, logging.Discard())
	require.NoError(t, err)
	return s
}

// ---- fake client ----

type fakeClient struct {
	LoginPair session.Pair
	LoginErr  error
	LogoutErr error
	PingErr   error

	ListPage  *models.Page[json.RawMessage]
	ListErr   error
	GetRaw    json.RawMessage
	GetErr    error
	CreateRaw json.RawMessage
	CreateErr error
	DeleteErr error

	// OnLogout runs inside Logout, before it returns.
	OnLogout func(refreshToken string)

	LastLoginUser  string
	LastLoginPass  []byte
	LastLogoutTok  string
	LogoutToks     []string
	LogoutCalls    int
	LastCollection models.Collection
	LastPage       int
	LastID         int64
	LastBody       any
}

func (f *fakeClient) Login(_ context.Context, username string, password []byte) (session.Pair, error) {
	f.LastLoginUser, f.LastLoginPass = username, append([]byte(nil), password...)
	return f.LoginPair, f.LoginErr
}

func (f *fakeClient) Logout(_ context.Context, refreshToken string) error {
	f.LogoutCalls++
	f.LastLogoutTok = refreshToken
	f.LogoutToks = append(f.LogoutToks, refreshToken)
	if f.OnLogout != nil {
		f.OnLogout(refreshToken)
	}
	return f.LogoutErr
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

func (f *fakeClient) List(_ context.Context, c models.Collection, page int) (*models.Page[json.RawMessage], error) {
	f.LastCollection, f.LastPage = c, page
	return f.ListPage, f.ListErr
}

func (f *fakeClient) Get(_ context.Context, c models.Collection, id int64) (json.RawMessage, error) {
	f.LastCollection, f.LastID = c, id
	return f.GetRaw, f.GetErr
}

func (f *fakeClient) Create(_ context.Context, c models.Collection, body any) (json.RawMessage, error) {
	f.LastCollection, f.LastBody = c, body
	return f.CreateRaw, f.CreateErr
}

func (f *fakeClient) Delete(_ context.Context, c models.Collection, id int64) error {
	f.LastCollection, f.LastID = c, id
	return f.DeleteErr
}
