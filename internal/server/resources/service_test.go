package resources

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/stretchr/testify/require"
)

func newTestService(pageSize int) *Service {
	s := NewService(NewMemoryRepository(), pageSize)
	s.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func property(name string) map[string]any {
	return map[string]any{
		"property_name": name,
		"address":       "1 Main St",
		"city":          "Springfield",
		"state":         "IL",
		"zip_code":      "62701",
		"property_type": "apartment",
	}
}

func TestService_Create_AppliesDefaultsAndTimestamps(t *testing.T) {
	s := newTestService(20)
	ctx := context.Background()

	rec, err := s.Create(ctx, "1", Properties, property("Maple"))
	require.NoError(t, err)

	require.Equal(t, int64(1), rec["id"])
	require.Equal(t, "Maple", rec["property_name"])
	require.Equal(t, "USA", rec["country"])
	require.Equal(t, int64(1), rec["total_units"])
	require.Equal(t, true, rec["is_active"])
	require.Nil(t, rec["bedrooms"])
	require.Equal(t, "2025-06-01T12:00:00Z", rec["created_at"])
}

func TestService_Create_CoercesStrings(t *testing.T) {
	s := newTestService(20)
	ctx := context.Background()

	body := property("Oak")
	body["total_units"] = "4"
	body["purchase_price"] = "250000"
	body["is_listed_for_rent"] = "true"

	rec, err := s.Create(ctx, "1", Properties, body)
	require.NoError(t, err)
	require.Equal(t, int64(4), rec["total_units"])
	require.Equal(t, "250000.00", rec["purchase_price"])
	require.Equal(t, true, rec["is_listed_for_rent"])
}

func TestService_Create_Validation(t *testing.T) {
	s := newTestService(20)
	ctx := context.Background()

	_, err := s.Create(ctx, "1", Tenants, map[string]any{"first_name": "Ann", "last_name": ""})
	require.ErrorIs(t, err, common.ErrorValidation)

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, []string{msgRequired}, verr["last_name"])
	require.Equal(t, []string{msgRequired}, verr["email"])
	require.NotContains(t, verr, "first_name")

	_, err = s.Create(ctx, "1", Leases, map[string]any{
		"property_obj":     "99",
		"lease_start_date": "01/01/2025",
		"lease_end_date":   "2025-12-31",
		"monthly_rent":     "lots",
		"deposit_amount":   1000,
	})
	require.ErrorAs(t, err, &verr)
	require.Equal(t, []string{`Invalid pk "99" - object does not exist.`}, verr["property_obj"])
	require.Equal(t, []string{msgDate}, verr["lease_start_date"])
	require.Equal(t, []string{msgNumber}, verr["monthly_rent"])
	require.NotContains(t, verr, "deposit_amount")
}

func TestService_Create_ResolvesReferenceLabels(t *testing.T) {
	s := newTestService(20)
	ctx := context.Background()

	prop, err := s.Create(ctx, "1", Properties, property("Maple"))
	require.NoError(t, err)
	tenant, err := s.Create(ctx, "1", Tenants, map[string]any{"first_name": "Ann", "last_name": "Lee", "email": "ann@example.com"})
	require.NoError(t, err)

	lease, err := s.Create(ctx, "1", Leases, map[string]any{
		"property_obj":     prop["id"],
		"tenant":           "1",
		"lease_start_date": "2025-01-01",
		"lease_end_date":   "2025-06-11",
		"monthly_rent":     "1200",
		"deposit_amount":   "1200.5",
	})
	require.NoError(t, err)

	require.Equal(t, prop["id"], lease["property_obj"])
	require.Equal(t, tenant["id"], lease["tenant"])
	require.Equal(t, "Maple", lease["property_name"])
	require.Equal(t, "Ann Lee", lease["tenant_name"])
	require.Equal(t, "1200.00", lease["monthly_rent"])
	require.Equal(t, "1200.50", lease["deposit_amount"])
	require.Equal(t, false, lease["is_expired"])
	require.Equal(t, 10, lease["days_remaining"])
}

func TestService_ReferencesAreScopedToOwner(t *testing.T) {
	s := newTestService(20)
	ctx := context.Background()

	prop, err := s.Create(ctx, "1", Properties, property("Maple"))
	require.NoError(t, err)

	_, err = s.Create(ctx, "2", Maintenance, map[string]any{"property": prop["id"], "title": "Leak", "description": "Kitchen"})
	require.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.Get(ctx, "2", Properties, prop["id"].(int64))
	require.True(t, IsNotFound(err))
}

func TestService_List_Pagination(t *testing.T) {
	s := newTestService(2)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		_, err := s.Create(ctx, "1", Properties, property(name))
		require.NoError(t, err)
	}

	p1, err := s.List(ctx, "1", Properties, 1)
	require.NoError(t, err)
	require.Equal(t, 3, p1.Count)
	require.True(t, p1.HasNext)
	require.False(t, p1.HasPrevious)
	require.Len(t, p1.Results, 2)
	require.Equal(t, "A", p1.Results[0]["property_name"])

	p2, err := s.List(ctx, "1", Properties, 2)
	require.NoError(t, err)
	require.False(t, p2.HasNext)
	require.True(t, p2.HasPrevious)
	require.Len(t, p2.Results, 1)
	require.Equal(t, "C", p2.Results[0]["property_name"])

	_, err = s.List(ctx, "1", Properties, 3)
	require.ErrorIs(t, err, ErrInvalidPage)
	_, err = s.List(ctx, "1", Properties, 0)
	require.ErrorIs(t, err, ErrInvalidPage)

	empty, err := s.List(ctx, "2", Properties, 1)
	require.NoError(t, err)
	require.Zero(t, empty.Count)
	require.Empty(t, empty.Results)
}

func TestService_GetDelete(t *testing.T) {
	s := newTestService(20)
	ctx := context.Background()

	rec, err := s.Create(ctx, "1", Properties, property("Maple"))
	require.NoError(t, err)
	id := rec["id"].(int64)

	got, err := s.Get(ctx, "1", Properties, id)
	require.NoError(t, err)
	require.Equal(t, "Maple", got["property_name"])

	got["property_name"] = "mutated"
	again, err := s.Get(ctx, "1", Properties, id)
	require.NoError(t, err)
	require.Equal(t, "Maple", again["property_name"], "records are returned as copies")

	require.NoError(t, s.Delete(ctx, "1", Properties, id))
	require.True(t, IsNotFound(s.Delete(ctx, "1", Properties, id)))
	_, err = s.Get(ctx, "1", Properties, id)
	require.True(t, IsNotFound(err))
}

func TestService_PaymentsDerivedFields(t *testing.T) {
	s := newTestService(20)
	ctx := context.Background()

	prop, err := s.Create(ctx, "1", Properties, property("Maple"))
	require.NoError(t, err)
	lease, err := s.Create(ctx, "1", Leases, map[string]any{
		"property_obj": prop["id"], "lease_start_date": "2025-01-01", "lease_end_date": "2025-02-01",
		"monthly_rent": "1000", "deposit_amount": "1000",
	})
	require.NoError(t, err)
	require.Equal(t, true, lease["is_expired"])
	require.Equal(t, 0, lease["days_remaining"])

	pay, err := s.Create(ctx, "1", Payments, map[string]any{
		"lease": lease["id"], "amount": "1000", "late_fee": "50",
		"payment_date": "2025-01-05", "due_date": "2025-01-01", "payment_method": "bank_transfer",
	})
	require.NoError(t, err)
	require.Equal(t, true, pay["is_late"])
	require.Equal(t, "1050.00", pay["total_amount"])
}

func TestService_PeriodsDerivedFields(t *testing.T) {
	s := newTestService(20)
	ctx := context.Background()

	prop, err := s.Create(ctx, "1", Properties, property("Maple"))
	require.NoError(t, err)

	tests := []struct {
		name       string
		start      string
		income     string
		expenses   string
		wantNet    string
		wantMargin string
	}{
		{name: "profit", start: "2025-01-01", income: "4000", expenses: "1000", wantNet: "3000.00", wantMargin: "75.00"},
		{name: "loss", start: "2025-02-01", income: "1000", expenses: "1500", wantNet: "-500.00", wantMargin: "-50.00"},
		{name: "no income", start: "2025-03-01", income: "", expenses: "200", wantNet: "-200.00", wantMargin: "0.00"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := map[string]any{
				"property": prop["id"], "period_start": tc.start, "period_end": tc.start[:8] + "28",
				"total_expenses": tc.expenses,
			}
			if tc.income != "" {
				body["total_income"] = tc.income
			}
			rec, err := s.Create(ctx, "1", Periods, body)
			require.NoError(t, err)
			require.Equal(t, "Maple", rec["property_name"])
			require.Equal(t, "monthly", rec["period_type"])
			require.Equal(t, tc.wantNet, rec["net_income"])
			require.Equal(t, tc.wantMargin, rec["profit_margin"])
		})
	}
}

func TestService_UnknownCollection(t *testing.T) {
	s := newTestService(20)
	_, err := s.List(context.Background(), "1", "ships", 1)
	require.ErrorIs(t, err, ErrUnknownCollection)
}
