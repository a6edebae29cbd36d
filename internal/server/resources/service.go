package resources

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/propkeeper/internal/common"
)

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrInvalidPage       = errors.New("invalid page")
)

// Page is one page of a list, numbered from 1.
type Page struct {
	Count       int
	Number      int
	HasNext     bool
	HasPrevious bool
	Results     []Record
}

type Service struct {
	repo     Repository
	pageSize int
	now      func() time.Time
}

func NewService(repo Repository, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Service{repo: repo, pageSize: pageSize, now: time.Now}
}

func (s *Service) List(ctx context.Context, owner, collection string, page int) (*Page, error) {
	if _, ok := Lookup(collection); !ok {
		return nil, ErrUnknownCollection
	}
	if page < 1 {
		return nil, ErrInvalidPage
	}

	results, total, err := s.repo.List(ctx, owner, collection, (page-1)*s.pageSize, s.pageSize)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 && page > 1 {
		return nil, ErrInvalidPage
	}

	now := s.now()
	for _, rec := range results {
		derive(collection, rec, now)
	}

	return &Page{
		Count:       total,
		Number:      page,
		HasNext:     page*s.pageSize < total,
		HasPrevious: page > 1,
		Results:     results,
	}, nil
}

func (s *Service) Get(ctx context.Context, owner, collection string, id int64) (Record, error) {
	if _, ok := Lookup(collection); !ok {
		return nil, ErrUnknownCollection
	}
	rec, err := s.repo.Get(ctx, owner, collection, id)
	if err != nil {
		return nil, err
	}
	derive(collection, rec, s.now())
	return rec, nil
}

// Create validates body against the collection schema and stores the
// result. Validation failures are returned as ValidationError.
func (s *Service) Create(ctx context.Context, owner, collection string, body map[string]any) (Record, error) {
	schema, ok := Lookup(collection)
	if !ok {
		return nil, ErrUnknownCollection
	}

	lookup := func(ref string, id int64) (Record, bool) {
		rec, err := s.repo.Get(ctx, owner, ref, id)
		return rec, err == nil
	}

	rec, err := coerce(schema, body, lookup)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC().Format(time.RFC3339Nano)
	rec["created_at"] = now
	rec["updated_at"] = now

	stored, err := s.repo.Insert(ctx, owner, collection, rec)
	if err != nil {
		return nil, fmt.Errorf("error storing record: %w", err)
	}
	derive(collection, stored, s.now())
	return stored, nil
}

func (s *Service) Delete(ctx context.Context, owner, collection string, id int64) error {
	if _, ok := Lookup(collection); !ok {
		return ErrUnknownCollection
	}
	return s.repo.Delete(ctx, owner, collection, id)
}

// derive fills the read-only fields computed from others.
func derive(collection string, rec Record, now time.Time) {
	today := now.Format(time.DateOnly)

	switch collection {
	case Leases:
		end, _ := rec["lease_end_date"].(string)
		if t, err := time.Parse(time.DateOnly, end); err == nil {
			days := int(t.Sub(startOfDay(now)).Hours() / 24)
			rec["days_remaining"] = max(days, 0)
		}
		rec["is_expired"] = end != "" && end < today

	case Maintenance:
		status, _ := rec["status"].(string)
		created, _ := rec["created_at"].(string)
		t, err := time.Parse(time.RFC3339Nano, created)
		rec["is_overdue"] = err == nil && status != "completed" && status != "cancelled" && now.Sub(t) > 7*24*time.Hour

	case Payments:
		paid, _ := rec["payment_date"].(string)
		due, _ := rec["due_date"].(string)
		rec["is_late"] = paid != "" && due != "" && paid > due
		rec["total_amount"] = addDecimals(rec["amount"], rec["late_fee"])

	case Periods:
		income, expenses := decimalValue(rec["total_income"]), decimalValue(rec["total_expenses"])
		rec["net_income"] = strconv.FormatFloat(income-expenses, 'f', 2, 64)
		margin := 0.0
		if income != 0 {
			margin = (income - expenses) / income * 100
		}
		rec["profit_margin"] = strconv.FormatFloat(margin, 'f', 2, 64)
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func addDecimals(values ...any) string {
	var sum float64
	for _, v := range values {
		sum += decimalValue(v)
	}
	return strconv.FormatFloat(sum, 'f', 2, 64)
}

// decimalValue reads a stored decimal string; anything else is zero.
func decimalValue(v any) float64 {
	s, _ := v.(string)
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, common.ErrorNotFound)
}
