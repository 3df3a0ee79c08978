package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/jmfavre/facture-api/internal/match"
	"github.com/jmfavre/facture-api/internal/obs"
)

// ProductRow is the raw product record produced by the query provider.
type ProductRow struct {
	ID          pgtype.UUID
	Name        string
	Description pgtype.Text
	Code        pgtype.Text
	Unit        pgtype.Text
	UnitPrice   string
	TaxRate     string
}

type queryProvider interface {
	ListActiveProducts(ctx context.Context) ([]ProductRow, error)
}

// Service supplies the active product catalog and ranked search over it.
type Service struct {
	queries queryProvider
	cache   *Cache
	matcher match.Matcher
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries     queryProvider
	Cache       *Cache
	Dictionary  match.Dictionary
	SearchLimit int
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("catalog: queries provider is required")
	}
	limit := cfg.SearchLimit
	if limit <= 0 {
		limit = match.DefaultLimit
	}
	return &Service{
		queries: cfg.Queries,
		cache:   cfg.Cache,
		matcher: match.Matcher{Dict: cfg.Dictionary, Limit: limit},
	}, nil
}

const activeProductsCacheKey = "catalog:products:active"

// ActiveProducts returns the current active catalog, served from cache when warm.
func (s *Service) ActiveProducts(ctx context.Context) ([]match.Product, error) {
	if s.cache != nil {
		var cached []match.Product
		ok, err := s.cache.GetJSON(ctx, activeProductsCacheKey, &cached)
		if err == nil && ok {
			if obs.CatalogCacheTotal != nil {
				obs.CatalogCacheTotal.WithLabelValues("hit").Inc()
			}
			return cached, nil
		}
		if obs.CatalogCacheTotal != nil {
			obs.CatalogCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	rows, err := s.queries.ListActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}
	products := make([]match.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, rowToProduct(row))
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, activeProductsCacheKey, products)
	}
	return products, nil
}

// Search ranks the active catalog against the query. The catalog is supplied
// fresh per call; the matcher itself holds no catalog state.
func (s *Service) Search(ctx context.Context, query string) ([]match.Candidate, error) {
	if strings.TrimSpace(query) == "" {
		return []match.Candidate{}, nil
	}
	products, err := s.ActiveProducts(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	candidates := s.matcher.Search(query, products)
	if obs.SearchDuration != nil {
		obs.SearchDuration.Observe(obs.DurationMillis(time.Since(start)))
	}
	if obs.SearchResults != nil {
		obs.SearchResults.Observe(float64(len(candidates)))
	}
	if obs.SearchTotal != nil {
		outcome := "hit"
		if len(candidates) == 0 {
			outcome = "empty"
		}
		obs.SearchTotal.WithLabelValues(outcome).Inc()
	}
	return candidates, nil
}

func rowToProduct(row ProductRow) match.Product {
	return match.Product{
		ID:          uuidValue(row.ID),
		Name:        row.Name,
		Description: textValue(row.Description),
		Code:        textValue(row.Code),
		Unit:        textValue(row.Unit),
		UnitPrice:   decimalValue(row.UnitPrice),
		TaxRate:     decimalValue(row.TaxRate),
	}
}

func uuidValue(id pgtype.UUID) uuid.UUID {
	if !id.Valid {
		return uuid.Nil
	}
	u, err := uuid.FromBytes(id.Bytes[:])
	if err != nil {
		return uuid.Nil
	}
	return u
}

func textValue(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

func decimalValue(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
