package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"munc-inventory/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateSKU    = errors.New("a product with this SKU already exists")
)

// ProductRepository defines the interface for catalog data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindBySKU(ctx context.Context, sku string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
}

// The catalog lives in memory: the only durable data in this system are the
// session keys in the local store. Insertion order is preserved for listing.
type inMemoryProductRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*domain.Product
	order    []uuid.UUID
}

// NewProductRepository creates an empty in-memory catalog
func NewProductRepository() ProductRepository {
	return &inMemoryProductRepository{
		products: make(map[uuid.UUID]*domain.Product),
	}
}

// Create adds a new product, rejecting duplicate SKUs
func (r *inMemoryProductRepository) Create(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.SKU != "" {
		for _, p := range r.products {
			if p.SKU == product.SKU {
				return ErrDuplicateSKU
			}
		}
	}

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	stored := cloneProduct(product)
	r.products[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	return nil
}

// Update replaces an existing product
func (r *inMemoryProductRepository) Update(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return ErrProductNotFound
	}

	if product.SKU != "" && product.SKU != existing.SKU {
		for _, p := range r.products {
			if p.ID != product.ID && p.SKU == product.SKU {
				return ErrDuplicateSKU
			}
		}
	}

	stored := cloneProduct(product)
	stored.UpdatedAt = time.Now()
	r.products[stored.ID] = stored
	return nil
}

// Delete removes a product by id
func (r *inMemoryProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}

	delete(r.products, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// FindByID retrieves a product by id
func (r *inMemoryProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return cloneProduct(p), nil
}

// FindBySKU retrieves a product by SKU
func (r *inMemoryProductRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.SKU == sku {
			return cloneProduct(p), nil
		}
	}
	return nil, ErrProductNotFound
}

// List returns all products in insertion order
func (r *inMemoryProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneProduct(r.products[id]))
	}
	return out, nil
}

// cloneProduct copies a product so callers never alias repository state
func cloneProduct(p *domain.Product) *domain.Product {
	out := *p
	out.Variants = append([]domain.Variant(nil), p.Variants...)
	out.BundleItems = append([]domain.BundleItem(nil), p.BundleItems...)
	if p.InitialStock != nil {
		stock := *p.InitialStock
		out.InitialStock = &stock
	}
	return &out
}
