package services

import (
	"context"

	"github.com/google/uuid"

	redisclient "github.com/halewick/tradeportal-backend/internal/clients/redis"
	"github.com/halewick/tradeportal-backend/internal/pkg/dbctx"
	"github.com/halewick/tradeportal-backend/internal/pkg/logger"
	"github.com/halewick/tradeportal-backend/internal/repos"
	"github.com/halewick/tradeportal-backend/internal/types"
)

type ProductService interface {
	Get(ctx context.Context, productID uuid.UUID) (*types.Product, error)
	List(ctx context.Context) ([]types.Product, error)
}

type productService struct {
	log      *logger.Logger
	products repos.ProductRepo
	cache    redisclient.TierCache
}

// NewProductService wires the catalog reads. cache may be nil; the service
// degrades to repo-only reads.
func NewProductService(log *logger.Logger, products repos.ProductRepo, cache redisclient.TierCache) ProductService {
	return &productService{
		log:      log.With("service", "ProductService"),
		products: products,
		cache:    cache,
	}
}

func (ps *productService) Get(ctx context.Context, productID uuid.UUID) (*types.Product, error) {
	if ps.cache != nil {
		if product, ok := ps.cache.GetProduct(ctx, productID); ok {
			return product, nil
		}
	}
	product, err := ps.products.GetByID(dbctx.Context{Ctx: ctx}, productID)
	if err != nil {
		return nil, err
	}
	if ps.cache != nil {
		ps.cache.SetProduct(ctx, product)
	}
	return product, nil
}

func (ps *productService) List(ctx context.Context) ([]types.Product, error) {
	return ps.products.List(dbctx.Context{Ctx: ctx})
}
