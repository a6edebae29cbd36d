package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Collection is the path of a resource collection relative to the API root.
type Collection string

const (
	CollectionProperties   Collection = "properties"
	CollectionTenants      Collection = "tenants"
	CollectionLeases       Collection = "leases"
	CollectionMaintenance  Collection = "maintenance"
	CollectionPayments     Collection = "payments"
	CollectionTransactions Collection = "accounting/transactions"
	CollectionPeriods      Collection = "accounting/periods"
)

var ErrUnknownCollection = errors.New("unknown collection")

var ErrIncorrectField = errors.New("field must be name=value")

// collectionNames maps user-facing names, aliases included, to collections.
var collectionNames = map[string]Collection{
	"properties":   CollectionProperties,
	"property":     CollectionProperties,
	"tenants":      CollectionTenants,
	"tenant":       CollectionTenants,
	"leases":       CollectionLeases,
	"lease":        CollectionLeases,
	"maintenance":  CollectionMaintenance,
	"payments":     CollectionPayments,
	"payment":      CollectionPayments,
	"transactions": CollectionTransactions,
	"transaction":  CollectionTransactions,
	"periods":      CollectionPeriods,
	"period":       CollectionPeriods,
}

// Collections lists every known collection in display order.
func Collections() []Collection {
	return []Collection{
		CollectionProperties,
		CollectionTenants,
		CollectionLeases,
		CollectionMaintenance,
		CollectionPayments,
		CollectionTransactions,
		CollectionPeriods,
	}
}

// ParseCollection resolves a user-facing name such as "tenant" or
// "transactions".
func ParseCollection(name string) (Collection, error) {
	c, ok := collectionNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return c, nil
}

// Name is the short user-facing name of c.
func (c Collection) Name() string {
	if i := strings.LastIndex(string(c), "/"); i >= 0 {
		return string(c[i+1:])
	}
	return string(c)
}

// FieldsFromStrings parses "name=value" lines into a request body. Values are sent
// as strings; the API coerces them per field.
func FieldsFromStrings(lines []string) (map[string]any, error) {
	fields := make(map[string]any, len(lines))
	for _, line := range lines {
		name, value, ok := strings.Cut(line, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", ErrIncorrectField, line)
		}
		fields[name] = strings.TrimSpace(value)
	}
	return fields, nil
}

// RequiredFields returns the fields the API refuses to create a record
// without, sorted.
func RequiredFields(c Collection) []string {
	var out []string
	switch c {
	case CollectionProperties:
		out = []string{"property_name", "address", "city", "state", "zip_code", "property_type"}
	case CollectionTenants:
		out = []string{"first_name", "last_name", "email"}
	case CollectionLeases:
		out = []string{"property_obj", "lease_start_date", "lease_end_date", "monthly_rent", "deposit_amount"}
	case CollectionMaintenance:
		out = []string{"property", "title", "description"}
	case CollectionPayments:
		out = []string{"lease", "amount", "payment_date", "due_date", "payment_method"}
	case CollectionTransactions:
		out = []string{"property", "transaction_type", "category", "amount", "transaction_date"}
	case CollectionPeriods:
		out = []string{"property", "period_start", "period_end"}
	}
	sort.Strings(out)
	return out
}
