package models

import (
	"fmt"
	"time"
)

// Record is any row of a collection.
type Record interface {
	GetID() int64
	// Summary is a one-line description for listings.
	Summary() string
}

// Page is the envelope of a paginated list response.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether a further page exists.
func (p *Page[T]) HasNext() bool { return p.Next != nil && *p.Next != "" }

// Decimal amounts are strings on the wire ("1200.00") and stay that way.

type Property struct {
	ID              int64     `json:"id"`
	PropertyName    string    `json:"property_name"`
	Description     string    `json:"description,omitempty"`
	Address         string    `json:"address"`
	City            string    `json:"city"`
	State           string    `json:"state"`
	ZipCode         string    `json:"zip_code"`
	Country         string    `json:"country,omitempty"`
	PropertyType    string    `json:"property_type"`
	TotalUnits      int       `json:"total_units,omitempty"`
	Bedrooms        *int      `json:"bedrooms,omitempty"`
	Bathrooms       *string   `json:"bathrooms,omitempty"`
	PurchasePrice   *string   `json:"purchase_price,omitempty"`
	IsActive        bool      `json:"is_active"`
	IsListedForRent bool      `json:"is_listed_for_rent"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (p Property) GetID() int64 { return p.ID }

func (p Property) Summary() string {
	return fmt.Sprintf("%s, %s %s (%s, %d units)", p.PropertyName, p.Address, p.City, p.PropertyType, p.TotalUnits)
}

type Tenant struct {
	ID                   int64     `json:"id"`
	FirstName            string    `json:"first_name"`
	LastName             string    `json:"last_name"`
	Email                string    `json:"email"`
	Phone                string    `json:"phone,omitempty"`
	City                 string    `json:"city,omitempty"`
	State                string    `json:"state,omitempty"`
	EmergencyContactName string    `json:"emergency_contact_name,omitempty"`
	EmployerName         string    `json:"employer_name,omitempty"`
	AnnualIncome         *string   `json:"annual_income,omitempty"`
	CreditScore          *int      `json:"credit_score,omitempty"`
	IsActive             bool      `json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (t Tenant) GetID() int64 { return t.ID }

func (t Tenant) Summary() string {
	return fmt.Sprintf("%s %s <%s>", t.FirstName, t.LastName, t.Email)
}

type Lease struct {
	ID             int64     `json:"id"`
	PropertyObj    int64     `json:"property_obj"`
	PropertyName   string    `json:"property_name,omitempty"`
	Tenant         *int64    `json:"tenant,omitempty"`
	TenantName     string    `json:"tenant_name,omitempty"`
	LeaseStartDate string    `json:"lease_start_date"`
	LeaseEndDate   string    `json:"lease_end_date"`
	MonthlyRent    string    `json:"monthly_rent"`
	DepositAmount  string    `json:"deposit_amount"`
	LateFee        string    `json:"late_fee,omitempty"`
	Status         string    `json:"status"`
	AutoRenew      bool      `json:"auto_renew"`
	DaysRemaining  *int      `json:"days_remaining,omitempty"`
	IsExpired      bool      `json:"is_expired"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (l Lease) GetID() int64 { return l.ID }

func (l Lease) Summary() string {
	return fmt.Sprintf("%s / %s %s..%s rent %s [%s]", l.PropertyName, l.TenantName, l.LeaseStartDate, l.LeaseEndDate, l.MonthlyRent, l.Status)
}

type MaintenanceRequest struct {
	ID            int64     `json:"id"`
	Property      int64     `json:"property"`
	PropertyName  string    `json:"property_name,omitempty"`
	Tenant        *int64    `json:"tenant,omitempty"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Priority      string    `json:"priority"`
	Category      string    `json:"category,omitempty"`
	Status        string    `json:"status"`
	VendorName    string    `json:"vendor_name,omitempty"`
	EstimatedCost *string   `json:"estimated_cost,omitempty"`
	ActualCost    *string   `json:"actual_cost,omitempty"`
	IsOverdue     bool      `json:"is_overdue"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (m MaintenanceRequest) GetID() int64 { return m.ID }

func (m MaintenanceRequest) Summary() string {
	return fmt.Sprintf("%s @ %s [%s, %s]", m.Title, m.PropertyName, m.Priority, m.Status)
}

type RentPayment struct {
	ID            int64     `json:"id"`
	Lease         int64     `json:"lease"`
	Amount        string    `json:"amount"`
	PaymentDate   string    `json:"payment_date"`
	DueDate       string    `json:"due_date"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	TransactionID string    `json:"transaction_id,omitempty"`
	LateFee       string    `json:"late_fee,omitempty"`
	TotalAmount   string    `json:"total_amount,omitempty"`
	IsLate        bool      `json:"is_late"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p RentPayment) GetID() int64 { return p.ID }

func (p RentPayment) Summary() string {
	return fmt.Sprintf("lease %d: %s due %s via %s [%s]", p.Lease, p.Amount, p.DueDate, p.PaymentMethod, p.Status)
}

type Transaction struct {
	ID              int64     `json:"id"`
	Property        int64     `json:"property"`
	PropertyName    string    `json:"property_name,omitempty"`
	TransactionType string    `json:"transaction_type"`
	Category        string    `json:"category"`
	Amount          string    `json:"amount"`
	Description     string    `json:"description,omitempty"`
	TransactionDate string    `json:"transaction_date"`
	Lease           *int64    `json:"lease,omitempty"`
	VendorName      string    `json:"vendor_name,omitempty"`
	IsRecurring     bool      `json:"is_recurring"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (t Transaction) GetID() int64 { return t.ID }

func (t Transaction) Summary() string {
	return fmt.Sprintf("%s %s %s %s (%s)", t.TransactionDate, t.TransactionType, t.Amount, t.Category, t.PropertyName)
}

// AccountingPeriod is a closed or open bookkeeping window of one property.
// NetIncome and ProfitMargin are computed by the server.
type AccountingPeriod struct {
	ID            int64     `json:"id"`
	Property      int64     `json:"property"`
	PropertyName  string    `json:"property_name,omitempty"`
	PeriodStart   string    `json:"period_start"`
	PeriodEnd     string    `json:"period_end"`
	PeriodType    string    `json:"period_type"`
	TotalIncome   string    `json:"total_income"`
	TotalExpenses string    `json:"total_expenses"`
	NetIncome     string    `json:"net_income"`
	ProfitMargin  string    `json:"profit_margin"`
	IsClosed      bool      `json:"is_closed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p AccountingPeriod) GetID() int64 { return p.ID }

func (p AccountingPeriod) Summary() string {
	state := "open"
	if p.IsClosed {
		state = "closed"
	}
	return fmt.Sprintf("%s..%s %s %s: net %s (%s%%) [%s]", p.PeriodStart, p.PeriodEnd, p.PeriodType, p.PropertyName, p.NetIncome, p.ProfitMargin, state)
}
