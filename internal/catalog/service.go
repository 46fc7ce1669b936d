package catalog

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"

	"github.com/luthfiadilal/pos/internal/domain"
	"github.com/luthfiadilal/pos/pkg/logger"
)

// Service is the read-through catalog: cache first, then the catalog API.
// Cache failures degrade to a direct fetch, never to an error at the till.
type Service struct {
	client CatalogClient
	cache  ProductCache
	log    *logger.Logger
	sfg    singleflight.Group // prevents a stampede on cold cache
}

func NewService(client CatalogClient, cache ProductCache, log *logger.Logger) *Service {
	return &Service{
		client: client,
		cache:  cache,
		log:    log,
	}
}

func (s *Service) Products(ctx context.Context, outlet domain.OutletRef) ([]domain.Product, error) {
	v, err, _ := s.sfg.Do(cacheKey(outlet), func() (interface{}, error) {
		products, err := s.cache.Get(ctx, outlet)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.log.Warn("catalog_cache_get_failed", "cache read failed, falling back to catalog api", "error", err.Error())
		}

		products, err = s.client.FetchCatalog(ctx, outlet)
		if err != nil {
			return nil, err
		}

		go func() {
			if err := s.cache.Set(context.Background(), outlet, products); err != nil {
				s.log.Warn("catalog_cache_set_failed", "cache write failed", "error", err.Error())
			}
		}()

		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

// Product resolves one catalog entry by code.
func (s *Service) Product(ctx context.Context, outlet domain.OutletRef, productCode string) (domain.Product, error) {
	products, err := s.Products(ctx, outlet)
	if err != nil {
		return domain.Product{}, err
	}
	for _, p := range products {
		if p.Code == productCode {
			return p, nil
		}
	}
	return domain.Product{}, ErrProductNotFound
}

// Invalidate drops the cached catalog for an outlet (sold-out flags change
// during service).
func (s *Service) Invalidate(ctx context.Context, outlet domain.OutletRef) {
	if err := s.cache.Delete(ctx, outlet); err != nil {
		s.log.Warn("catalog_cache_invalidate_failed", "cache invalidate failed", "error", err.Error())
	}
}

var ErrProductNotFound = errors.New("product not found in catalog")
