package server

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/propkeeper/internal/server/resources"
	"github.com/dmitrijs2005/propkeeper/internal/server/users"
)

// Demo account created by Seed.
const (
	DemoUsername = "demo"
	DemoPassword = "demo1234"
)

type seedRecord struct {
	collection string
	body       map[string]any
}

// Ids below refer to earlier records of the same run, which start at 1.
var demoRecords = []seedRecord{
	{resources.Properties, map[string]any{
		"property_name": "Maple Court", "address": "12 Maple St", "city": "Austin", "state": "TX",
		"zip_code": "78701", "property_type": "apartment", "total_units": 8, "bedrooms": 2, "bathrooms": "1.5",
	}},
	{resources.Properties, map[string]any{
		"property_name": "Harbor View", "address": "400 Bay Rd", "city": "Tampa", "state": "FL",
		"zip_code": "33602", "property_type": "condo", "total_units": 1, "is_listed_for_rent": true,
	}},
	{resources.Tenants, map[string]any{
		"first_name": "Jane", "last_name": "Doe", "email": "jane.doe@example.com", "phone": "555-0100",
	}},
	{resources.Tenants, map[string]any{
		"first_name": "Omar", "last_name": "Haddad", "email": "omar.haddad@example.com", "credit_score": 720,
	}},
	{resources.Leases, map[string]any{
		"property_obj": 1, "tenant": 1, "lease_start_date": "2025-01-01", "lease_end_date": "2025-12-31",
		"monthly_rent": "1450", "deposit_amount": "1450",
	}},
	{resources.Maintenance, map[string]any{
		"property": 1, "tenant": 1, "title": "Leaking faucet", "description": "Kitchen faucet drips constantly",
		"priority": "high", "category": "plumbing",
	}},
	{resources.Payments, map[string]any{
		"lease": 1, "amount": "1450", "payment_date": "2025-01-03", "due_date": "2025-01-01",
		"payment_method": "bank_transfer", "late_fee": "25",
	}},
	{resources.Transactions, map[string]any{
		"property": 1, "lease": 1, "transaction_type": "income", "category": "rent", "amount": "1450",
		"transaction_date": "2025-01-03",
	}},
	{resources.Transactions, map[string]any{
		"property": 1, "transaction_type": "expense", "category": "maintenance", "amount": "180",
		"transaction_date": "2025-01-10", "vendor_name": "QuickFix Plumbing",
	}},
	{resources.Periods, map[string]any{
		"property": 1, "period_start": "2025-01-01", "period_end": "2025-01-31",
		"total_income": "1450", "total_expenses": "180", "is_closed": true,
	}},
}

// Seed registers the demo user and gives them a small portfolio.
func Seed(ctx context.Context, us *users.Service, rs *resources.Service) error {
	u, err := us.Register(ctx, DemoUsername, []byte(DemoPassword))
	if err != nil {
		return err
	}

	for _, r := range demoRecords {
		if _, err := rs.Create(ctx, u.ID, r.collection, r.body); err != nil {
			return fmt.Errorf("%s: %w", r.collection, err)
		}
	}
	return nil
}
