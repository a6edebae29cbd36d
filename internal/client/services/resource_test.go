package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/propkeeper/internal/client/client"
	"github.com/dmitrijs2005/propkeeper/internal/client/models"
	"github.com/dmitrijs2005/propkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/propkeeper/internal/client/repositories/records"
	"github.com/dmitrijs2005/propkeeper/internal/client/session"
	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenantPage(ids ...int64) *models.Page[json.RawMessage] {
	page := &models.Page[json.RawMessage]{Count: len(ids)}
	for _, id := range ids {
		page.Results = append(page.Results, json.RawMessage(fmt.Sprintf(`{"id":%d,"first_name":"T%d","last_name":"L","email":"t%d@example.org"}`, id, id, id)))
	}
	return page
}

func TestList_DecodesAndCaches(t *testing.T) {
	db := openDB(t)
	next := "http://x/api/tenants/?page=3"
	page := tenantPage(1, 2)
	page.Count = 45
	page.Next = &next
	fc := &fakeClient{ListPage: page}
	svc := NewResourceService(fc, db, nil)
	ctx := context.Background()

	got, err := svc.List(ctx, models.CollectionTenants, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, fc.LastPage)
	assert.Equal(t, 45, got.Count)
	assert.True(t, got.HasNext)
	assert.False(t, got.Offline)
	require.Len(t, got.Records, 2)
	assert.Equal(t, "T1 L <t1@example.org>", got.Records[0].Summary())
	assert.IsType(t, models.Tenant{}, got.Records[0])

	rows, err := records.NewSQLiteRepository(db).GetAll(ctx, string(models.CollectionTenants))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestList_PageFloorIsOne(t *testing.T) {
	fc := &fakeClient{ListPage: tenantPage()}
	_, err := NewResourceService(fc, nil, nil).List(context.Background(), models.CollectionTenants, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, fc.LastPage)
}

func TestList_OfflineFallsBackToCache(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	fc := &fakeClient{ListPage: tenantPage(3, 4)}
	svc := NewResourceService(fc, db, nil)

	_, err := svc.List(ctx, models.CollectionTenants, 1)
	require.NoError(t, err)

	fc.ListErr = fmt.Errorf("%w: dial tcp: connection refused", client.ErrUnavailable)
	got, err := svc.List(ctx, models.CollectionTenants, 1)
	require.NoError(t, err)
	assert.True(t, got.Offline)
	assert.Equal(t, 2, got.Count)
	require.Len(t, got.Records, 2)
	assert.Equal(t, int64(3), got.Records[0].GetID())
}

func TestList_OfflineIsPaged(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	ids := make([]int64, 25)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	fc := &fakeClient{ListPage: tenantPage(ids...)}
	svc := NewResourceService(fc, db, nil)
	_, err := svc.List(ctx, models.CollectionTenants, 1)
	require.NoError(t, err)

	fc.ListErr = client.ErrUnavailable
	tests := []struct {
		page    int
		first   int64
		n       int
		hasNext bool
	}{
		{page: 1, first: 1, n: 20, hasNext: true},
		{page: 2, first: 21, n: 5, hasNext: false},
		{page: 3, n: 0, hasNext: false},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("page %d", tc.page), func(t *testing.T) {
			got, err := svc.List(ctx, models.CollectionTenants, tc.page)
			require.NoError(t, err)
			assert.True(t, got.Offline)
			assert.Equal(t, 25, got.Count)
			assert.Equal(t, tc.page, got.Page)
			assert.Equal(t, tc.hasNext, got.HasNext)
			require.Len(t, got.Records, tc.n)
			if tc.n > 0 {
				assert.Equal(t, tc.first, got.Records[0].GetID())
			}
		})
	}
}

func TestList_OfflineCacheIsNotSharedAcrossUsers(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	sess := newSession(t, db, session.Pair{})
	fc := &fakeClient{LoginPair: session.Pair{Access: "A", Refresh: "R"}, ListPage: tenantPage(1, 2)}
	auth := NewAuthService(fc, sess, metadata.NewSQLiteRepository(db), records.NewSQLiteRepository(db), nil)
	svc := NewResourceService(fc, db, nil)

	require.NoError(t, auth.Login(ctx, "alice", []byte("pw")))
	_, err := svc.List(ctx, models.CollectionTenants, 1)
	require.NoError(t, err)

	require.NoError(t, sess.Terminate(ctx, errors.New("refresh rejected")))
	require.NoError(t, auth.Login(ctx, "bob", []byte("pw")))

	fc.ListErr = client.ErrUnavailable
	got, err := svc.List(ctx, models.CollectionTenants, 1)
	require.NoError(t, err)
	assert.True(t, got.Offline)
	assert.Zero(t, got.Count)
	assert.Empty(t, got.Records)
}

func TestList_OtherErrorsAreReturned(t *testing.T) {
	db := openDB(t)
	fc := &fakeClient{ListErr: client.ErrUnauthorized}
	_, err := NewResourceService(fc, db, nil).List(context.Background(), models.CollectionTenants, 1)
	require.ErrorIs(t, err, client.ErrUnauthorized)
}

func TestList_UnknownCollection(t *testing.T) {
	_, err := NewResourceService(&fakeClient{}, nil, nil).List(context.Background(), models.Collection("vault"), 1)
	require.ErrorIs(t, err, models.ErrUnknownCollection)
}

func TestGet_OnlineOfflineAndGone(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	fc := &fakeClient{GetRaw: json.RawMessage(`{"id":8,"title":"Leaking tap","property":1,"property_name":"Elm Court","priority":"high","status":"open"}`)}
	svc := NewResourceService(fc, db, nil)

	d, err := svc.Get(ctx, models.CollectionMaintenance, 8)
	require.NoError(t, err)
	assert.Equal(t, "Leaking tap @ Elm Court [high, open]", d.Record.Summary())
	assert.False(t, d.Offline)

	fc.GetErr = client.ErrUnavailable
	d, err = svc.Get(ctx, models.CollectionMaintenance, 8)
	require.NoError(t, err)
	assert.True(t, d.Offline)
	assert.JSONEq(t, string(fc.GetRaw), string(d.Raw))

	_, err = svc.Get(ctx, models.CollectionMaintenance, 9)
	require.ErrorIs(t, err, client.ErrUnavailable, "not cached either")

	fc.GetErr = &client.HTTPError{StatusCode: http.StatusNotFound}
	_, err = svc.Get(ctx, models.CollectionMaintenance, 8)
	require.True(t, client.IsNotFound(err))
	_, err = records.NewSQLiteRepository(db).GetByID(ctx, string(models.CollectionMaintenance), 8)
	require.ErrorIs(t, err, common.ErrorNotFound, "a 404 evicts the cached copy")
}

func TestCreate_ChecksRequiredFields(t *testing.T) {
	fc := &fakeClient{}
	svc := NewResourceService(fc, nil, nil)

	_, err := svc.Create(context.Background(), models.CollectionTenants, map[string]any{"first_name": "Ada", "email": ""})
	require.ErrorIs(t, err, ErrMissingFields)
	assert.Contains(t, err.Error(), "email, last_name")
	assert.Nil(t, fc.LastBody, "nothing sent")
}

func TestCreate_PostsAndCaches(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	fc := &fakeClient{CreateRaw: json.RawMessage(`{"id":12,"first_name":"Ada","last_name":"Byron","email":"ada@example.org"}`)}
	svc := NewResourceService(fc, db, nil)

	fields := map[string]any{"first_name": "Ada", "last_name": "Byron", "email": "ada@example.org"}
	rec, err := svc.Create(ctx, models.CollectionTenants, fields)
	require.NoError(t, err)

	assert.Equal(t, int64(12), rec.GetID())
	assert.Equal(t, fields, fc.LastBody)
	_, err = records.NewSQLiteRepository(db).GetByID(ctx, string(models.CollectionTenants), 12)
	require.NoError(t, err)
}

func TestDelete_EvictsCache(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	repo := records.NewSQLiteRepository(db)
	require.NoError(t, repo.CreateOrUpdate(ctx, &records.Row{Collection: "leases", ID: 3, Body: []byte(`{"id":3}`), FetchedAt: time.Now()}))

	fc := &fakeClient{}
	require.NoError(t, NewResourceService(fc, db, nil).Delete(ctx, models.CollectionLeases, 3))

	assert.Equal(t, int64(3), fc.LastID)
	_, err := repo.GetByID(ctx, "leases", 3)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete_ErrorKeepsCache(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	repo := records.NewSQLiteRepository(db)
	require.NoError(t, repo.CreateOrUpdate(ctx, &records.Row{Collection: "leases", ID: 3, Body: []byte(`{"id":3}`)}))

	fc := &fakeClient{DeleteErr: &client.HTTPError{StatusCode: http.StatusForbidden}}
	require.Error(t, NewResourceService(fc, db, nil).Delete(ctx, models.CollectionLeases, 3))

	_, err := repo.GetByID(ctx, "leases", 3)
	require.NoError(t, err)
}
