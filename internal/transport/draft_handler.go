package transport

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"munc-inventory/internal/domain"
	"munc-inventory/internal/form"
	"munc-inventory/internal/middleware"
	"munc-inventory/internal/repository"
	"munc-inventory/internal/service"
)

// UpdateFieldRequest mutates a single draft field
type UpdateFieldRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

// AddVariantRequest appends one variant row to a draft
type AddVariantRequest struct {
	SKU      string          `json:"sku"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock" validate:"gte=0"`
	Color    string          `json:"color"`
	Size     string          `json:"size"`
	Material string          `json:"material"`
}

// DraftResponse is the draft state plus the field visibility derived from it
type DraftResponse struct {
	Draft          *form.Draft     `json:"draft"`
	VisibleFields  map[string]bool `json:"visibleFields"`
	RequiredFields map[string]bool `json:"requiredFields"`
	Warnings       []string        `json:"warnings,omitempty"`
}

// SubmitResponse is the created product plus any advisory warnings
type SubmitResponse struct {
	Product  *domain.Product `json:"product"`
	Warnings []string        `json:"warnings,omitempty"`
}

// DraftHandler handles HTTP requests for product drafts
type DraftHandler struct {
	drafts service.DraftService
	logger *zap.Logger
}

// NewDraftHandler creates a new DraftHandler
func NewDraftHandler(drafts service.DraftService, logger *zap.Logger) *DraftHandler {
	return &DraftHandler{
		drafts: drafts,
		logger: logger,
	}
}

// RegisterRoutes registers all draft routes
func (h *DraftHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/drafts", func(r chi.Router) {
		r.Post("/", h.CreateDraft)
		r.Get("/{id}", h.GetDraft)
		r.Patch("/{id}", h.UpdateField)
		r.Post("/{id}/sku", h.GenerateSKU)
		r.Post("/{id}/barcode", h.GenerateBarcode)
		r.Post("/{id}/variants", h.AddVariant)
		r.Delete("/{id}/variants/{variantID}", h.RemoveVariant)
		r.Post("/{id}/submit", h.Submit)
		r.Delete("/{id}", h.DiscardDraft)
	})
}

func draftResponse(d *form.Draft) DraftResponse {
	return DraftResponse{
		Draft:          d,
		VisibleFields:  form.VisibleFields(d),
		RequiredFields: form.RequiredFields(d),
		Warnings:       d.Warnings(),
	}
}

// CreateDraft starts an empty draft
func (h *DraftHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	d := h.drafts.CreateDraft(r.Context())
	middleware.RespondWithJSON(w, http.StatusCreated, draftResponse(d))
}

// GetDraft returns the current draft state
func (h *DraftHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid draft ID")
		return
	}

	d, err := h.drafts.GetDraft(r.Context(), id)
	if err != nil {
		h.respondDraftError(w, err, "failed to get draft")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, draftResponse(d))
}

// UpdateField applies one field mutation and returns the new draft state,
// including any fields the mutation reset
func (h *DraftHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid draft ID")
		return
	}

	var req UpdateFieldRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Draft field validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.drafts.UpdateField(r.Context(), id, req.Field, req.Value)
	if err != nil {
		if errors.Is(err, form.ErrUnknownField) || errors.Is(err, form.ErrInvalidValue) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.respondDraftError(w, err, "failed to update draft")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, draftResponse(d))
}

// GenerateSKU fills in a derived SKU on explicit request
func (h *DraftHandler) GenerateSKU(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid draft ID")
		return
	}

	d, err := h.drafts.GenerateSKU(r.Context(), id)
	if err != nil {
		h.respondDraftError(w, err, "failed to generate SKU")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, draftResponse(d))
}

// GenerateBarcode fills in a random barcode on explicit request
func (h *DraftHandler) GenerateBarcode(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid draft ID")
		return
	}

	d, err := h.drafts.GenerateBarcode(r.Context(), id)
	if err != nil {
		h.respondDraftError(w, err, "failed to generate barcode")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, draftResponse(d))
}

// AddVariant appends a variant row to the draft
func (h *DraftHandler) AddVariant(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid draft ID")
		return
	}

	var req AddVariantRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Variant validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.drafts.AddVariant(r.Context(), id, service.VariantInput{
		SKU:      req.SKU,
		Price:    req.Price,
		Stock:    req.Stock,
		Color:    req.Color,
		Size:     req.Size,
		Material: req.Material,
	})
	if err != nil {
		h.respondDraftError(w, err, "failed to add variant")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, draftResponse(d))
}

// RemoveVariant deletes one variant row from the draft
func (h *DraftHandler) RemoveVariant(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid draft ID")
		return
	}

	variantID, err := uuid.Parse(chi.URLParam(r, "variantID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid variant ID")
		return
	}

	d, err := h.drafts.RemoveVariant(r.Context(), id, variantID)
	if err != nil {
		if errors.Is(err, service.ErrVariantNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "variant not found")
			return
		}
		h.respondDraftError(w, err, "failed to remove variant")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, draftResponse(d))
}

// Submit materializes the draft into the catalog
func (h *DraftHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid draft ID")
		return
	}

	product, warnings, err := h.drafts.Submit(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrDraftNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "draft not found")
			return
		}
		if errors.Is(err, repository.ErrDuplicateSKU) {
			middleware.RespondWithError(w, http.StatusConflict, "a product with this SKU already exists")
			return
		}
		h.logger.Debug("Draft submit rejected", zap.Error(err))
		middleware.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, SubmitResponse{Product: product, Warnings: warnings})
}

// DiscardDraft throws the draft away without creating anything
func (h *DraftHandler) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid draft ID")
		return
	}

	if err := h.drafts.DiscardDraft(r.Context(), id); err != nil {
		h.respondDraftError(w, err, "failed to discard draft")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "draft discarded"})
}

func (h *DraftHandler) respondDraftError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, service.ErrDraftNotFound) {
		middleware.RespondWithError(w, http.StatusNotFound, "draft not found")
		return
	}
	h.logger.Error(fallback, zap.Error(err))
	middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
}
