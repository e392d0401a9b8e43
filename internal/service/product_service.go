package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/uav-store/backend/internal/domain"
	"github.com/uav-store/backend/internal/repository"
	apperrors "github.com/uav-store/backend/pkg/util"
)

const featuredLimit = 3

// ProductService manages the product catalogue.
type ProductService struct {
	products repository.ProductRepository
	cache    repository.ProductCache
	logger   *zap.Logger
}

// NewProductService constructs the service. cache may be nil.
func NewProductService(products repository.ProductRepository, cache repository.ProductCache, logger *zap.Logger) *ProductService {
	if cache == nil {
		cache = repository.NewProductCache(nil, 0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{products: products, cache: cache, logger: logger}
}

// List returns products, optionally narrowed to slugs starting with slugPrefix.
func (s *ProductService) List(ctx context.Context, slugPrefix string, page repository.Page) ([]domain.Product, error) {
	return s.products.List(ctx, repository.ProductFilter{
		SlugPrefix: strings.ToLower(strings.TrimSpace(slugPrefix)),
		Page:       page,
	})
}

// FilterByCategory returns products sharing at least one category with the
// comma separated list.
func (s *ProductService) FilterByCategory(ctx context.Context, categories string, page repository.Page) ([]domain.Product, error) {
	var wanted []string
	for _, c := range strings.Split(categories, ",") {
		if c = strings.TrimSpace(c); c != "" {
			wanted = append(wanted, c)
		}
	}
	return s.products.List(ctx, repository.ProductFilter{Categories: wanted, Page: page})
}

// Featured returns the newest prominent products. Results are served from the
// cache when possible; cache failures fall through to the database.
func (s *ProductService) Featured(ctx context.Context) ([]domain.Product, error) {
	cached, ok, err := s.cache.GetFeatured(ctx)
	if err != nil {
		s.logger.Warn("featured cache read failed", zap.Error(err))
	}
	if ok {
		return cached, nil
	}

	products, err := s.products.ListProminent(ctx, featuredLimit)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetFeatured(ctx, products); err != nil {
		s.logger.Warn("featured cache write failed", zap.Error(err))
	}
	return products, nil
}

// Get returns a single product.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("product", id, err)
	}
	return product, nil
}

// Create validates and stores a product.
func (s *ProductService) Create(ctx context.Context, product *domain.Product) error {
	product.Normalize()
	if problems := product.Validate(); len(problems) > 0 {
		return apperrors.NewValidationError("invalid product payload", problems)
	}
	if err := s.products.Create(ctx, product); err != nil {
		if repository.IsUniqueViolation(err) {
			return apperrors.NewConflict("product name already exists", map[string]any{"name": product.Name})
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Update applies patch to the stored product and saves it.
func (s *ProductService) Update(ctx context.Context, id string, patch func(*domain.Product)) (*domain.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldName := product.Name
	patch(product)
	product.ID = id
	if product.Name != oldName {
		product.Slug = ""
	}
	product.Normalize()
	if problems := product.Validate(); len(problems) > 0 {
		return nil, apperrors.NewValidationError("invalid product payload", problems)
	}
	if err := s.products.Update(ctx, product); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("product name already exists", map[string]any{"name": product.Name})
		}
		return nil, notFound("product", id, err)
	}
	s.invalidate(ctx)
	return product, nil
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return apperrors.NewConflict("product is referenced by bills", map[string]any{"id": id})
		}
		return notFound("product", id, err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("featured cache invalidation failed", zap.Error(err))
	}
}
