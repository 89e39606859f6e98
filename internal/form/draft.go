// Package form holds the product-creation form state machine: a Draft is an
// in-progress product mutated field by field, with derived fields (SKU,
// barcode, QR image URL) recomputed from the current state.
package form

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"munc-inventory/internal/domain"
)

var (
	ErrUnknownField = errors.New("unknown form field")
	ErrInvalidValue = errors.New("invalid field value")
)

// Field names, mirroring the web form's payload keys
const (
	FieldName            = "name"
	FieldSKU             = "sku"
	FieldItemType        = "itemType"
	FieldProductType     = "productType"
	FieldCategory        = "category"
	FieldSubCategory     = "subCategory"
	FieldBrand           = "brand"
	FieldSupplier        = "supplier"
	FieldWarehouse       = "warehouse"
	FieldStatus          = "status"
	FieldSellingPrice    = "sellingPrice"
	FieldInitialStock    = "initialStock"
	FieldBarcode         = "barcode"
	FieldEAN             = "ean"
	FieldServiceDuration = "serviceDuration"
	FieldDescription     = "description"
)

const qrImageEndpoint = "https://api.qrserver.com/v1/create-qr-code/"

// Draft is a product under construction. It is created empty and discarded
// on submit or cancel; it is never persisted.
type Draft struct {
	ID              uuid.UUID           `json:"id"`
	Name            string              `json:"name"`
	SKU             string              `json:"sku"`
	ItemType        domain.ItemType     `json:"itemType"`
	ProductType     domain.ProductType  `json:"productType"`
	Category        string              `json:"category"`
	SubCategory     string              `json:"subCategory"`
	Brand           string              `json:"brand"`
	Supplier        string              `json:"supplier"`
	Warehouse       string              `json:"warehouse"`
	Status          domain.ProductStatus `json:"status"`
	SellingPrice    decimal.Decimal     `json:"sellingPrice"`
	InitialStock    int                 `json:"initialStock"`
	Barcode         string              `json:"barcode"`
	EAN             string              `json:"ean"`
	ServiceDuration string              `json:"serviceDuration"`
	Description     string              `json:"description"`
	HasVariants     bool                `json:"hasVariants"`
	Variants        []domain.Variant    `json:"variants"`
	BundleItems     []domain.BundleItem `json:"bundleItems"`
	QRImageURL      string              `json:"qrImageUrl"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// NewDraft creates an empty draft
func NewDraft() *Draft {
	now := time.Now()
	return &Draft{
		ID:          uuid.New(),
		Variants:    []domain.Variant{},
		BundleItems: []domain.BundleItem{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SetField mutates exactly one field by name. Changing the product type also
// resets the fields that depend on it; changing the barcode recomputes the
// derived QR image URL.
func (d *Draft) SetField(name, value string) error {
	switch name {
	case FieldName:
		d.Name = value
	case FieldSKU:
		d.SKU = value
	case FieldItemType:
		switch domain.ItemType(value) {
		case domain.ItemTypeGoods, domain.ItemTypeServices:
			d.ItemType = domain.ItemType(value)
		default:
			return fmt.Errorf("%w: item type %q", ErrInvalidValue, value)
		}
	case FieldProductType:
		if err := d.setProductType(domain.ProductType(value)); err != nil {
			return err
		}
	case FieldCategory:
		d.Category = value
	case FieldSubCategory:
		d.SubCategory = value
	case FieldBrand:
		d.Brand = value
	case FieldSupplier:
		d.Supplier = value
	case FieldWarehouse:
		d.Warehouse = value
	case FieldStatus:
		switch domain.ProductStatus(value) {
		case domain.StatusReturnable, domain.StatusNonReturnable, domain.StatusUnspecified:
			d.Status = domain.ProductStatus(value)
		default:
			return fmt.Errorf("%w: status %q", ErrInvalidValue, value)
		}
	case FieldSellingPrice:
		if value == "" {
			d.SellingPrice = decimal.Zero
			break
		}
		price, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("%w: selling price %q", ErrInvalidValue, value)
		}
		if price.IsNegative() {
			return fmt.Errorf("%w: %v", ErrInvalidValue, domain.ErrNegativePrice)
		}
		d.SellingPrice = price
	case FieldInitialStock:
		if value == "" {
			d.InitialStock = 0
			break
		}
		stock, err := strconv.Atoi(value)
		if err != nil || stock < 0 {
			return fmt.Errorf("%w: initial stock %q", ErrInvalidValue, value)
		}
		d.InitialStock = stock
	case FieldBarcode:
		d.Barcode = value
		d.QRImageURL = QRImageURL(value)
	case FieldEAN:
		d.EAN = value
	case FieldServiceDuration:
		d.ServiceDuration = value
	case FieldDescription:
		d.Description = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	d.UpdatedAt = time.Now()
	return nil
}

// setProductType applies the transition rules: simple and bundle products
// carry no variants or bundle items; variant products carry no bundle items
// and flag that variants are expected (the variant editor fills them in).
func (d *Draft) setProductType(pt domain.ProductType) error {
	switch pt {
	case domain.ProductTypeSimple, domain.ProductTypeBundle:
		d.ProductType = pt
		d.Variants = []domain.Variant{}
		d.BundleItems = []domain.BundleItem{}
		d.HasVariants = false
	case domain.ProductTypeVariant:
		d.ProductType = pt
		d.BundleItems = []domain.BundleItem{}
		d.HasVariants = true
	default:
		return fmt.Errorf("%w: product type %q", ErrInvalidValue, pt)
	}
	return nil
}

// GenerateSKU derives a SKU from the current category and product type:
// three-letter uppercase prefixes plus a random 4-digit suffix. Only called
// on explicit user request.
func (d *Draft) GenerateSKU() string {
	category := d.Category
	if category == "" {
		category = "GEN"
	}
	productType := string(d.ProductType)
	if productType == "" {
		productType = "SIM"
	}

	d.SKU = fmt.Sprintf("%s-%s-%d", prefix3(category), prefix3(productType), rand.IntN(9000)+1000)
	d.UpdatedAt = time.Now()
	return d.SKU
}

// GenerateBarcode sets a random 13-digit EAN-range barcode, recomputing the
// QR image URL along the way
func (d *Draft) GenerateBarcode() string {
	code := strconv.FormatInt(rand.Int64N(9_000_000_000_000)+1_000_000_000_000, 10)
	d.Barcode = code
	d.QRImageURL = QRImageURL(code)
	d.UpdatedAt = time.Now()
	return code
}

// AddVariant appends a variant row to a variant-type draft
func (d *Draft) AddVariant(v domain.Variant) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	d.Variants = append(d.Variants, v)
	d.UpdatedAt = time.Now()
}

// RemoveVariant deletes the variant row with the given id
func (d *Draft) RemoveVariant(id uuid.UUID) bool {
	for i, v := range d.Variants {
		if v.ID == id {
			d.Variants = append(d.Variants[:i], d.Variants[i+1:]...)
			d.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// Warnings reports advisory issues that do not block submission. A variant
// product with an empty variants list is flagged rather than rejected; the
// web client never enforced it and silently "fixing" that is avoided.
func (d *Draft) Warnings() []string {
	var warnings []string
	if d.ProductType == domain.ProductTypeVariant && len(d.Variants) == 0 {
		warnings = append(warnings, "variant product has no variants configured")
	}
	return warnings
}

// ToProduct materializes the draft into a catalog product
func (d *Draft) ToProduct() (*domain.Product, error) {
	now := time.Now()
	p := &domain.Product{
		ID:              uuid.New(),
		Name:            d.Name,
		SKU:             d.SKU,
		ItemType:        d.ItemType,
		ProductType:     d.ProductType,
		Category:        d.Category,
		SubCategory:     d.SubCategory,
		Status:          d.Status,
		SellingPrice:    d.SellingPrice,
		Description:     d.Description,
		HasVariants:     d.HasVariants,
		Variants:        append([]domain.Variant(nil), d.Variants...),
		BundleItems:     append([]domain.BundleItem(nil), d.BundleItems...),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// Goods-only and services-only fields are dropped when irrelevant
	if d.ItemType == domain.ItemTypeGoods {
		p.Brand = d.Brand
		p.Supplier = d.Supplier
		p.Warehouse = d.Warehouse
		p.Barcode = d.Barcode
		p.EAN = d.EAN
		stock := d.InitialStock
		p.InitialStock = &stock
	} else {
		p.ServiceDuration = d.ServiceDuration
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Clone returns a deep copy of the draft
func (d *Draft) Clone() *Draft {
	out := *d
	out.Variants = append([]domain.Variant(nil), d.Variants...)
	out.BundleItems = append([]domain.BundleItem(nil), d.BundleItems...)
	return &out
}

// QRImageURL derives the QR image URL for a barcode value. It is a pure
// function: the same barcode always yields the same URL, and an empty
// barcode yields an empty URL. Rendering happens at an external image
// endpoint; nothing is generated locally.
func QRImageURL(barcode string) string {
	if barcode == "" {
		return ""
	}
	return fmt.Sprintf(
		"%s?size=200x200&data=%s&bgcolor=ffffff&color=000000&qzone=2&margin=10&format=png",
		qrImageEndpoint,
		url.QueryEscape(barcode),
	)
}

// prefix3 uppercases and truncates a label to at most three runes
func prefix3(s string) string {
	upper := strings.ToUpper(s)
	runes := []rune(upper)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return string(runes)
}
