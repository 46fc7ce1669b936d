package catalog

import (
	"context"
	"errors"

	"github.com/luthfiadilal/pos/internal/domain"
)

type ProductCache interface {
	Get(ctx context.Context, outlet domain.OutletRef) ([]domain.Product, error)
	Set(ctx context.Context, outlet domain.OutletRef, products []domain.Product) error
	Delete(ctx context.Context, outlet domain.OutletRef) error
}

var ErrCacheMiss = errors.New("cache miss")
