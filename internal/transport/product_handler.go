package transport

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"munc-inventory/internal/display"
	"munc-inventory/internal/middleware"
	"munc-inventory/internal/repository"
)

// ProductHandler handles HTTP requests for the product catalog
type ProductHandler struct {
	products repository.ProductRepository
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products repository.ProductRepository, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		logger:   logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)
		r.Get("/{id}/view", h.GetProductView)
		r.Delete("/{id}", h.DeleteProduct)
	})
}

// ListProducts returns the catalog in insertion order. The view query
// parameter picks the card or list layout, defaulting to card.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	switch r.URL.Query().Get("view") {
	case "list":
		rows := make([]display.ListRowView, 0, len(products))
		for _, p := range products {
			rows = append(rows, display.NewListRowView(p))
		}
		middleware.RespondWithJSON(w, http.StatusOK, rows)
	default:
		cards := make([]display.CardView, 0, len(products))
		for _, p := range products {
			cards = append(cards, display.NewCardView(p))
		}
		middleware.RespondWithJSON(w, http.StatusOK, cards)
	}
}

// GetProduct returns the expanded detail panel for one product
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := h.products.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, display.NewDetailView(product))
}

// GetProductView returns one product in the requested layout
func (h *ProductHandler) GetProductView(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := h.products.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	switch mode := r.URL.Query().Get("mode"); mode {
	case "list":
		middleware.RespondWithJSON(w, http.StatusOK, display.NewListRowView(product))
	case "card", "":
		middleware.RespondWithJSON(w, http.StatusOK, display.NewCardView(product))
	default:
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown view mode")
	}
}

// DeleteProduct removes a product. The confirm query parameter mirrors the
// confirmation dialog: without confirm=true the handler returns the prompt
// and leaves the product in place.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := h.products.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		middleware.RespondWithJSON(w, http.StatusConflict, map[string]string{
			"prompt": display.DeletePrompt(product),
		})
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted successfully"})
}
