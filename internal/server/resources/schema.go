// Package resources is the in-memory record store behind the dev server's
// CRUD endpoints. Records are JSON objects scoped to the user that owns them.
package resources

// Kind is the wire type a field is coerced to on create.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindDecimal
	KindDate
	KindBool
	// KindRef is the integer id of a record in Field.Ref.
	KindRef
)

type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Default  any
	// Ref names the collection a KindRef field points to.
	Ref string
	// Label is the related field copied next to a KindRef, e.g. property_name.
	Label string
	// LabelFrom lists the fields of the referenced record that build Label.
	LabelFrom []string
}

type Schema struct {
	Collection string
	Fields     []Field
}

const (
	Properties   = "properties"
	Tenants      = "tenants"
	Leases       = "leases"
	Maintenance  = "maintenance"
	Payments     = "payments"
	Transactions = "accounting/transactions"
	Periods      = "accounting/periods"
)

var schemas = map[string]Schema{
	Properties: {Collection: Properties, Fields: []Field{
		{Name: "property_name", Kind: KindString, Required: true},
		{Name: "description", Kind: KindString, Default: ""},
		{Name: "address", Kind: KindString, Required: true},
		{Name: "city", Kind: KindString, Required: true},
		{Name: "state", Kind: KindString, Required: true},
		{Name: "zip_code", Kind: KindString, Required: true},
		{Name: "country", Kind: KindString, Default: "USA"},
		{Name: "property_type", Kind: KindString, Required: true},
		{Name: "total_units", Kind: KindInt, Default: int64(1)},
		{Name: "bedrooms", Kind: KindInt},
		{Name: "bathrooms", Kind: KindDecimal},
		{Name: "purchase_price", Kind: KindDecimal},
		{Name: "is_active", Kind: KindBool, Default: true},
		{Name: "is_listed_for_rent", Kind: KindBool, Default: false},
	}},
	Tenants: {Collection: Tenants, Fields: []Field{
		{Name: "first_name", Kind: KindString, Required: true},
		{Name: "last_name", Kind: KindString, Required: true},
		{Name: "email", Kind: KindString, Required: true},
		{Name: "phone", Kind: KindString, Default: ""},
		{Name: "city", Kind: KindString, Default: ""},
		{Name: "state", Kind: KindString, Default: ""},
		{Name: "emergency_contact_name", Kind: KindString, Default: ""},
		{Name: "employer_name", Kind: KindString, Default: ""},
		{Name: "annual_income", Kind: KindDecimal},
		{Name: "credit_score", Kind: KindInt},
		{Name: "is_active", Kind: KindBool, Default: true},
	}},
	Leases: {Collection: Leases, Fields: []Field{
		{Name: "property_obj", Kind: KindRef, Required: true, Ref: Properties, Label: "property_name", LabelFrom: []string{"property_name"}},
		{Name: "tenant", Kind: KindRef, Ref: Tenants, Label: "tenant_name", LabelFrom: []string{"first_name", "last_name"}},
		{Name: "lease_start_date", Kind: KindDate, Required: true},
		{Name: "lease_end_date", Kind: KindDate, Required: true},
		{Name: "monthly_rent", Kind: KindDecimal, Required: true},
		{Name: "deposit_amount", Kind: KindDecimal, Required: true},
		{Name: "late_fee", Kind: KindDecimal, Default: "0.00"},
		{Name: "status", Kind: KindString, Default: "active"},
		{Name: "auto_renew", Kind: KindBool, Default: false},
	}},
	Maintenance: {Collection: Maintenance, Fields: []Field{
		{Name: "property", Kind: KindRef, Required: true, Ref: Properties, Label: "property_name", LabelFrom: []string{"property_name"}},
		{Name: "tenant", Kind: KindRef, Ref: Tenants},
		{Name: "title", Kind: KindString, Required: true},
		{Name: "description", Kind: KindString, Required: true},
		{Name: "priority", Kind: KindString, Default: "medium"},
		{Name: "category", Kind: KindString, Default: "other"},
		{Name: "status", Kind: KindString, Default: "open"},
		{Name: "vendor_name", Kind: KindString, Default: ""},
		{Name: "estimated_cost", Kind: KindDecimal},
		{Name: "actual_cost", Kind: KindDecimal},
	}},
	Payments: {Collection: Payments, Fields: []Field{
		{Name: "lease", Kind: KindRef, Required: true, Ref: Leases},
		{Name: "amount", Kind: KindDecimal, Required: true},
		{Name: "payment_date", Kind: KindDate, Required: true},
		{Name: "due_date", Kind: KindDate, Required: true},
		{Name: "payment_method", Kind: KindString, Required: true},
		{Name: "status", Kind: KindString, Default: "completed"},
		{Name: "transaction_id", Kind: KindString, Default: ""},
		{Name: "late_fee", Kind: KindDecimal, Default: "0.00"},
	}},
	Transactions: {Collection: Transactions, Fields: []Field{
		{Name: "property", Kind: KindRef, Required: true, Ref: Properties, Label: "property_name", LabelFrom: []string{"property_name"}},
		{Name: "transaction_type", Kind: KindString, Required: true},
		{Name: "category", Kind: KindString, Required: true},
		{Name: "amount", Kind: KindDecimal, Required: true},
		{Name: "description", Kind: KindString, Default: ""},
		{Name: "transaction_date", Kind: KindDate, Required: true},
		{Name: "lease", Kind: KindRef, Ref: Leases},
		{Name: "vendor_name", Kind: KindString, Default: ""},
		{Name: "is_recurring", Kind: KindBool, Default: false},
	}},
	Periods: {Collection: Periods, Fields: []Field{
		{Name: "property", Kind: KindRef, Required: true, Ref: Properties, Label: "property_name", LabelFrom: []string{"property_name"}},
		{Name: "period_start", Kind: KindDate, Required: true},
		{Name: "period_end", Kind: KindDate, Required: true},
		{Name: "period_type", Kind: KindString, Default: "monthly"},
		{Name: "total_income", Kind: KindDecimal, Default: "0.00"},
		{Name: "total_expenses", Kind: KindDecimal, Default: "0.00"},
		{Name: "is_closed", Kind: KindBool, Default: false},
	}},
}

// Collections returns the collection names served by the API.
func Collections() []string {
	return []string{Properties, Tenants, Leases, Maintenance, Payments, Transactions, Periods}
}

// Lookup returns the schema of collection.
func Lookup(collection string) (Schema, bool) {
	s, ok := schemas[collection]
	return s, ok
}
