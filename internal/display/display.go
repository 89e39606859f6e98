// Package display holds the pure presentation rules for products: price and
// status formatting, variant summaries and the card/list/detail view models
// consumed by the UI.
package display

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"munc-inventory/internal/domain"
)

// Tone classifies a status for presentation
type Tone string

const (
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
	ToneNeutral  Tone = "neutral"
)

var pricePrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatPrice renders a selling price as a localized rupee string, or the
// "N/A" placeholder when no price is set
func FormatPrice(price decimal.Decimal) string {
	if price.IsZero() {
		return "N/A"
	}
	f, _ := price.Float64()
	return pricePrinter.Sprintf("₹%v", number.Decimal(f))
}

// StatusTone maps a product status to one of three presentation buckets
func StatusTone(status domain.ProductStatus) Tone {
	switch status {
	case domain.StatusReturnable:
		return TonePositive
	case domain.StatusNonReturnable:
		return ToneNegative
	default:
		return ToneNeutral
	}
}

// VariantSummary renders the variant count badge, empty when there are none
func VariantSummary(count int) string {
	if count == 0 {
		return ""
	}
	return fmt.Sprintf("%d options", count)
}

// DeletePrompt is the confirmation question shown before a product is
// deleted; deletion must not proceed until the user confirms it
func DeletePrompt(p *domain.Product) string {
	return fmt.Sprintf("Are you sure you want to delete %s?", p.Name)
}

// CardView is the compact card layout of a product
type CardView struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	SKU            string `json:"sku"`
	Category       string `json:"category"`
	Brand          string `json:"brand,omitempty"`
	ItemType       string `json:"itemType"`
	Status         string `json:"status"`
	StatusTone     Tone   `json:"statusTone"`
	Price          string `json:"price"`
	Stock          string `json:"stock,omitempty"`
	VariantSummary string `json:"variantSummary,omitempty"`
}

// ListRowView is the one-line list layout of a product
type ListRowView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	Category   string `json:"category"`
	Brand      string `json:"brand,omitempty"`
	ItemType   string `json:"itemType"`
	Status     string `json:"status"`
	StatusTone Tone   `json:"statusTone"`
	Price      string `json:"price"`
	Stock      string `json:"stock,omitempty"`
}

// VariantRow is one variant line inside the detail panel
type VariantRow struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	SKU     string `json:"sku"`
	Price   string `json:"price"`
	Stock   int    `json:"stock"`
}

// DetailView is the expanded detail panel of a product
type DetailView struct {
	CardView
	SubCategory  string       `json:"subCategory,omitempty"`
	Warehouse    string       `json:"warehouse,omitempty"`
	Supplier     string       `json:"supplier,omitempty"`
	Barcode      string       `json:"barcode,omitempty"`
	EAN          string       `json:"ean,omitempty"`
	Description  string       `json:"description,omitempty"`
	DeletePrompt string       `json:"deletePrompt"`
	Variants     []VariantRow `json:"variants,omitempty"`
}

// NewCardView builds the card layout for a product
func NewCardView(p *domain.Product) CardView {
	card := CardView{
		ID:             p.ID.String(),
		Name:           p.Name,
		SKU:            p.SKU,
		Category:       emptyAs(p.Category, "N/A"),
		Brand:          p.Brand,
		ItemType:       string(p.ItemType),
		Status:         string(p.Status),
		StatusTone:     StatusTone(p.Status),
		Price:          FormatPrice(p.SellingPrice),
		VariantSummary: VariantSummary(len(p.Variants)),
	}
	if p.InitialStock != nil {
		card.Stock = fmt.Sprintf("%d units", *p.InitialStock)
	}
	return card
}

// NewListRowView builds the list-row layout for a product
func NewListRowView(p *domain.Product) ListRowView {
	row := ListRowView{
		ID:         p.ID.String(),
		Name:       p.Name,
		SKU:        p.SKU,
		Category:   emptyAs(p.Category, "N/A"),
		Brand:      p.Brand,
		ItemType:   string(p.ItemType),
		Status:     string(p.Status),
		StatusTone: StatusTone(p.Status),
		Price:      FormatPrice(p.SellingPrice),
	}
	if p.InitialStock != nil {
		row.Stock = fmt.Sprintf("%d", *p.InitialStock)
	}
	return row
}

// NewDetailView builds the expanded detail panel for a product
func NewDetailView(p *domain.Product) DetailView {
	detail := DetailView{
		CardView:     NewCardView(p),
		SubCategory:  p.SubCategory,
		Warehouse:    p.Warehouse,
		Supplier:     p.Supplier,
		Barcode:      p.Barcode,
		EAN:          p.EAN,
		Description:  p.Description,
		DeletePrompt: DeletePrompt(p),
	}

	for _, v := range p.Variants {
		detail.Variants = append(detail.Variants, VariantRow{
			ID:    v.ID.String(),
			Label: variantLabel(v),
			SKU:   v.SKU,
			Price: FormatPrice(v.Price),
			Stock: v.Stock,
		})
	}

	return detail
}

// variantLabel joins the attribute fields the way the web client rendered
// them: "color size material" with unset parts skipped
func variantLabel(v domain.Variant) string {
	label := ""
	for _, part := range []string{v.Color, v.Size, v.Material} {
		if part == "" {
			continue
		}
		if label != "" {
			label += " "
		}
		label += part
	}
	return label
}

func emptyAs(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
