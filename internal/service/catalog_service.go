package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bikeparts/internal/catalog"
	"bikeparts/internal/domain"
	"bikeparts/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogMirror is the best-effort cache the product store falls back to when
// the database is unreachable.
type CatalogMirror interface {
	SetAll(ctx context.Context, products []domain.Product) error
	GetAll(ctx context.Context) ([]domain.Product, error)
}

// CatalogService defines the interface for the product store
type CatalogService interface {
	Refresh(ctx context.Context) error
	Snapshot() []domain.Product
	Filter(criteria catalog.Criteria, key catalog.SortKey) []domain.Product
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	productRepo repository.ProductRepository
	mirror      CatalogMirror
	logger      *zap.Logger

	mu       sync.RWMutex
	products []domain.Product
}

// NewCatalogService creates a new instance of CatalogService. The mirror is
// optional; with a nil mirror the store serves only what the repository
// returns.
func NewCatalogService(productRepo repository.ProductRepository, mirror CatalogMirror, logger *zap.Logger) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		mirror:      mirror,
		logger:      logger,
	}
}

// Refresh re-fetches the full catalog and replaces the in-memory snapshot.
// On repository failure it falls back to the mirrored copy, which may be
// stale; the next successful fetch overwrites it.
func (s *catalogService) Refresh(ctx context.Context) error {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		if s.mirror == nil {
			return fmt.Errorf("failed to refresh catalog: %w", err)
		}

		s.logger.Warn("Catalog fetch failed, falling back to mirror", zap.Error(err))
		cached, cacheErr := s.mirror.GetAll(ctx)
		if cacheErr != nil {
			return fmt.Errorf("failed to refresh catalog: %w", err)
		}
		s.replace(cached)
		return nil
	}

	s.replace(products)

	if s.mirror != nil {
		if err := s.mirror.SetAll(ctx, products); err != nil {
			// Mirroring is best-effort; a failed write only costs the fallback.
			s.logger.Warn("Failed to mirror catalog", zap.Error(err))
		}
	}

	return nil
}

func (s *catalogService) replace(products []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
}

// Snapshot returns a copy of the current catalog
func (s *catalogService) Snapshot() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Filter applies the filter/sort engine to the current snapshot
func (s *catalogService) Filter(criteria catalog.Criteria, key catalog.SortKey) []domain.Product {
	return catalog.FilterSort(s.Snapshot(), criteria, key)
}

// Get retrieves a single product
func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Create persists a new product and refreshes the snapshot
func (s *catalogService) Create(ctx context.Context, product *domain.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.productRepo.Create(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return s.Refresh(ctx)
}

// Update persists product changes and refreshes the snapshot
func (s *catalogService) Update(ctx context.Context, product *domain.Product) error {
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}

	return s.Refresh(ctx)
}

// Delete removes a product and refreshes the snapshot
func (s *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	return s.Refresh(ctx)
}
