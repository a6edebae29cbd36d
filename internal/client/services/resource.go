package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/propkeeper/internal/client/client"
	"github.com/dmitrijs2005/propkeeper/internal/client/models"
	"github.com/dmitrijs2005/propkeeper/internal/client/repositories/records"
	"github.com/dmitrijs2005/propkeeper/internal/dbx"
	"github.com/dmitrijs2005/propkeeper/internal/logging"
)

var ErrMissingFields = errors.New("missing required fields")

// offlinePageSize pages cached records like the server's PAGE_SIZE.
const offlinePageSize = 20

// ResourceService reads and writes records of any collection. Reads fall
// back to the local cache when the server is unavailable.
type ResourceService interface {
	List(ctx context.Context, c models.Collection, page int) (*Listing, error)
	Get(ctx context.Context, c models.Collection, id int64) (*Detail, error)
	Create(ctx context.Context, c models.Collection, fields map[string]any) (models.Record, error)
	Delete(ctx context.Context, c models.Collection, id int64) error
}

// Listing is one page of a collection.
type Listing struct {
	Count   int
	Page    int
	HasNext bool
	Records []models.Record
	// Offline is set when the records come from the local cache.
	Offline bool
}

// Detail is a single record plus its raw JSON for display.
type Detail struct {
	Record  models.Record
	Raw     json.RawMessage
	Offline bool
}

type decodeFunc func(json.RawMessage) (models.Record, error)

func decodeAs[T models.Record](raw json.RawMessage) (models.Record, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

var decoders = map[models.Collection]decodeFunc{
	models.CollectionProperties:   decodeAs[models.Property],
	models.CollectionTenants:      decodeAs[models.Tenant],
	models.CollectionLeases:       decodeAs[models.Lease],
	models.CollectionMaintenance:  decodeAs[models.MaintenanceRequest],
	models.CollectionPayments:     decodeAs[models.RentPayment],
	models.CollectionTransactions: decodeAs[models.Transaction],
	models.CollectionPeriods:      decodeAs[models.AccountingPeriod],
}

type resourceService struct {
	client client.Client
	db     *sql.DB
	logger logging.Logger
	now    func() time.Time
}

// NewResourceService binds the service to the API client and the local
// database holding the records cache. db may be nil to disable caching.
func NewResourceService(c client.Client, db *sql.DB, logger logging.Logger) ResourceService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &resourceService{client: c, db: db, logger: logger.With("component", "resources"), now: time.Now}
}

func (s *resourceService) decoder(c models.Collection) (decodeFunc, error) {
	d, ok := decoders[c]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownCollection, c)
	}
	return d, nil
}

func (s *resourceService) List(ctx context.Context, c models.Collection, page int) (*Listing, error) {
	decode, err := s.decoder(c)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	resp, err := s.client.List(ctx, c, page)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) && s.db != nil {
			s.logger.Warn(ctx, "server unavailable, listing cached records", "collection", c)
			return s.cachedList(ctx, c, page, decode)
		}
		return nil, err
	}

	out := &Listing{Count: resp.Count, Page: page, HasNext: resp.HasNext()}
	fresh := make([]records.Row, 0, len(resp.Results))
	for _, raw := range resp.Results {
		rec, err := decode(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s record: %w", c.Name(), err)
		}
		out.Records = append(out.Records, rec)
		fresh = append(fresh, records.Row{Collection: string(c), ID: rec.GetID(), Body: raw, FetchedAt: s.now()})
	}

	s.remember(ctx, fresh...)
	return out, nil
}

func (s *resourceService) Get(ctx context.Context, c models.Collection, id int64) (*Detail, error) {
	decode, err := s.decoder(c)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.Get(ctx, c, id)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) && s.db != nil {
			row, cacheErr := records.NewSQLiteRepository(s.db).GetByID(ctx, string(c), id)
			if cacheErr != nil {
				return nil, err
			}
			rec, derr := decode(row.Body)
			if derr != nil {
				return nil, derr
			}
			return &Detail{Record: rec, Raw: row.Body, Offline: true}, nil
		}
		if client.IsNotFound(err) {
			s.forget(ctx, c, id)
		}
		return nil, err
	}

	rec, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s record: %w", c.Name(), err)
	}
	s.remember(ctx, records.Row{Collection: string(c), ID: id, Body: raw, FetchedAt: s.now()})
	return &Detail{Record: rec, Raw: raw}, nil
}

// Create checks the required fields locally, then posts the record.
func (s *resourceService) Create(ctx context.Context, c models.Collection, fields map[string]any) (models.Record, error) {
	decode, err := s.decoder(c)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, name := range models.RequiredFields(c) {
		if v, ok := fields[name]; !ok || v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}

	raw, err := s.client.Create(ctx, c, fields)
	if err != nil {
		return nil, err
	}
	rec, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s record: %w", c.Name(), err)
	}
	s.remember(ctx, records.Row{Collection: string(c), ID: rec.GetID(), Body: raw, FetchedAt: s.now()})
	return rec, nil
}

func (s *resourceService) Delete(ctx context.Context, c models.Collection, id int64) error {
	if _, err := s.decoder(c); err != nil {
		return err
	}
	if err := s.client.Delete(ctx, c, id); err != nil {
		return err
	}
	s.forget(ctx, c, id)
	return nil
}

func (s *resourceService) cachedList(ctx context.Context, c models.Collection, page int, decode decodeFunc) (*Listing, error) {
	rows, err := records.NewSQLiteRepository(s.db).GetAll(ctx, string(c))
	if err != nil {
		return nil, fmt.Errorf("%w: cache: %w", client.ErrUnavailable, err)
	}

	start := min((page-1)*offlinePageSize, len(rows))
	end := min(start+offlinePageSize, len(rows))
	out := &Listing{Count: len(rows), Page: page, HasNext: end < len(rows), Offline: true}
	for _, row := range rows[start:end] {
		rec, err := decode(row.Body)
		if err != nil {
			s.logger.Warn(ctx, "skipping unreadable cached record", "collection", c, "id", row.ID, "error", err)
			continue
		}
		out.Records = append(out.Records, rec)
	}
	return out, nil
}

// remember writes rows to the cache in one transaction. Cache failures are
// logged, never returned.
func (s *resourceService) remember(ctx context.Context, rows ...records.Row) {
	if s.db == nil || len(rows) == 0 {
		return
	}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := records.NewSQLiteRepository(tx)
		for i := range rows {
			if err := repo.CreateOrUpdate(ctx, &rows[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Warn(ctx, "records cache not updated", "error", err)
	}
}

func (s *resourceService) forget(ctx context.Context, c models.Collection, id int64) {
	if s.db == nil {
		return
	}
	if err := records.NewSQLiteRepository(s.db).DeleteByID(ctx, string(c), id); err != nil {
		s.logger.Warn(ctx, "records cache not updated", "error", err)
	}
}
