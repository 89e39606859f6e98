package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"munc-inventory/internal/domain"
	"munc-inventory/internal/form"
	"munc-inventory/internal/repository"
)

var (
	ErrDraftNotFound   = errors.New("draft not found")
	ErrVariantNotFound = errors.New("variant not found")
)

// VariantInput is an incoming variant row for a draft
type VariantInput struct {
	SKU      string
	Price    decimal.Decimal
	Stock    int
	Color    string
	Size     string
	Material string
}

// DraftService defines the interface for managing in-progress product drafts
// and submitting them into the catalog
type DraftService interface {
	CreateDraft(ctx context.Context) *form.Draft
	GetDraft(ctx context.Context, id uuid.UUID) (*form.Draft, error)
	UpdateField(ctx context.Context, id uuid.UUID, field, value string) (*form.Draft, error)
	GenerateSKU(ctx context.Context, id uuid.UUID) (*form.Draft, error)
	GenerateBarcode(ctx context.Context, id uuid.UUID) (*form.Draft, error)
	AddVariant(ctx context.Context, id uuid.UUID, in VariantInput) (*form.Draft, error)
	RemoveVariant(ctx context.Context, id, variantID uuid.UUID) (*form.Draft, error)
	Submit(ctx context.Context, id uuid.UUID) (*domain.Product, []string, error)
	DiscardDraft(ctx context.Context, id uuid.UUID) error
}

type draftService struct {
	mu       sync.RWMutex
	drafts   map[uuid.UUID]*form.Draft
	products repository.ProductRepository
	logger   *zap.Logger
}

// NewDraftService creates a new instance of DraftService
func NewDraftService(products repository.ProductRepository, logger *zap.Logger) DraftService {
	return &draftService{
		drafts:   make(map[uuid.UUID]*form.Draft),
		products: products,
		logger:   logger,
	}
}

// CreateDraft starts an empty draft
func (s *draftService) CreateDraft(ctx context.Context) *form.Draft {
	d := form.NewDraft()

	s.mu.Lock()
	s.drafts[d.ID] = d
	s.mu.Unlock()

	s.logger.Debug("Draft created", zap.String("draft_id", d.ID.String()))
	return d.Clone()
}

// GetDraft returns a copy of the draft with the given id
func (s *draftService) GetDraft(ctx context.Context, id uuid.UUID) (*form.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return d.Clone(), nil
}

// UpdateField applies a single field mutation to the draft
func (s *draftService) UpdateField(ctx context.Context, id uuid.UUID, field, value string) (*form.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}

	if err := d.SetField(field, value); err != nil {
		return nil, err
	}
	return d.Clone(), nil
}

// GenerateSKU derives a SKU for the draft on explicit request
func (s *draftService) GenerateSKU(ctx context.Context, id uuid.UUID) (*form.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}

	d.GenerateSKU()
	return d.Clone(), nil
}

// GenerateBarcode fills in a random barcode for the draft on explicit request
func (s *draftService) GenerateBarcode(ctx context.Context, id uuid.UUID) (*form.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}

	d.GenerateBarcode()
	return d.Clone(), nil
}

// AddVariant appends a variant row to the draft
func (s *draftService) AddVariant(ctx context.Context, id uuid.UUID, in VariantInput) (*form.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}

	d.AddVariant(domain.Variant{
		SKU:      in.SKU,
		Price:    in.Price,
		Stock:    in.Stock,
		Color:    in.Color,
		Size:     in.Size,
		Material: in.Material,
	})
	return d.Clone(), nil
}

// RemoveVariant deletes a variant row from the draft
func (s *draftService) RemoveVariant(ctx context.Context, id, variantID uuid.UUID) (*form.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}

	if !d.RemoveVariant(variantID) {
		return nil, ErrVariantNotFound
	}
	return d.Clone(), nil
}

// Submit materializes the draft into the catalog and discards it. Advisory
// warnings (such as a variant product without variants) are returned
// alongside the created product, they do not block submission.
func (s *draftService) Submit(ctx context.Context, id uuid.UUID) (*domain.Product, []string, error) {
	s.mu.Lock()
	d, ok := s.drafts[id]
	s.mu.Unlock()

	if !ok {
		return nil, nil, ErrDraftNotFound
	}

	product, err := d.ToProduct()
	if err != nil {
		return nil, nil, fmt.Errorf("draft is not submittable: %w", err)
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, nil, err
	}

	warnings := d.Warnings()

	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()

	s.logger.Info("Product created from draft",
		zap.String("draft_id", id.String()),
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
	)
	return product, warnings, nil
}

// DiscardDraft throws the draft away
func (s *draftService) DiscardDraft(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[id]; !ok {
		return ErrDraftNotFound
	}
	delete(s.drafts, id)
	return nil
}
