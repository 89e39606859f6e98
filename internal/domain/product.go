package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNegativePrice      = errors.New("selling price must not be negative")
	ErrNegativeStock      = errors.New("initial stock must not be negative")
	ErrVariantsNotEmpty   = errors.New("variants are only allowed on variant products")
	ErrInvalidItemType    = errors.New("invalid item type")
	ErrInvalidProductType = errors.New("invalid product type")
	ErrInvalidStatus      = errors.New("invalid product status")
)

// ItemType distinguishes physical goods from services
type ItemType string

const (
	ItemTypeGoods    ItemType = "goods"
	ItemTypeServices ItemType = "services"
)

// ProductType describes how a product is sold
type ProductType string

const (
	ProductTypeSimple  ProductType = "simple"
	ProductTypeVariant ProductType = "variant"
	ProductTypeBundle  ProductType = "bundle"
)

// ProductStatus describes the return policy of a product
type ProductStatus string

const (
	StatusReturnable    ProductStatus = "returnable"
	StatusNonReturnable ProductStatus = "non-returnable"
	StatusUnspecified   ProductStatus = ""
)

// Product represents a sellable item in the catalog
type Product struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	SKU             string          `json:"sku"`
	ItemType        ItemType        `json:"itemType"`
	ProductType     ProductType     `json:"productType"`
	Category        string          `json:"category"`
	SubCategory     string          `json:"subCategory,omitempty"`
	Brand           string          `json:"brand,omitempty"`
	Supplier        string          `json:"supplier,omitempty"`
	Warehouse       string          `json:"warehouse,omitempty"`
	Status          ProductStatus   `json:"status"`
	SellingPrice    decimal.Decimal `json:"sellingPrice"`
	InitialStock    *int            `json:"initialStock,omitempty"` // goods only
	Barcode         string          `json:"barcode,omitempty"`
	EAN             string          `json:"ean,omitempty"`
	ServiceDuration string          `json:"serviceDuration,omitempty"` // services only
	Description     string          `json:"description,omitempty"`
	HasVariants     bool            `json:"hasVariants"`
	Variants        []Variant       `json:"variants,omitempty"`
	BundleItems     []BundleItem    `json:"bundleItems,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Variant is a specific sellable configuration (color/size/material) of a
// parent product. It is owned by the parent and has no lifecycle of its own.
type Variant struct {
	ID       uuid.UUID       `json:"id"`
	SKU      string          `json:"sku"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Color    string          `json:"color,omitempty"`
	Size     string          `json:"size,omitempty"`
	Material string          `json:"material,omitempty"`
}

// BundleItem references another catalog item sold as part of a bundle
type BundleItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// Validate checks structural invariants of the product
func (p *Product) Validate() error {
	switch p.ItemType {
	case ItemTypeGoods, ItemTypeServices:
	default:
		return ErrInvalidItemType
	}

	switch p.ProductType {
	case ProductTypeSimple, ProductTypeVariant, ProductTypeBundle:
	default:
		return ErrInvalidProductType
	}

	switch p.Status {
	case StatusReturnable, StatusNonReturnable, StatusUnspecified:
	default:
		return ErrInvalidStatus
	}

	if p.SellingPrice.IsNegative() {
		return ErrNegativePrice
	}

	if p.InitialStock != nil && *p.InitialStock < 0 {
		return ErrNegativeStock
	}

	// Simple and bundle products must not carry variants
	if p.ProductType != ProductTypeVariant && len(p.Variants) > 0 {
		return ErrVariantsNotEmpty
	}

	return nil
}

// IsGoods reports whether the product is a physical good
func (p *Product) IsGoods() bool {
	return p.ItemType == ItemTypeGoods
}
