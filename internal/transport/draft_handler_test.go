package transport

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"munc-inventory/internal/repository"
	"munc-inventory/internal/service"
)

func newDraftFixture(t *testing.T) (repository.ProductRepository, chi.Router) {
	t.Helper()

	logger := zap.NewNop()
	repo := repository.NewProductRepository()
	drafts := service.NewDraftService(repo, logger)

	router := chi.NewRouter()
	NewDraftHandler(drafts, logger).RegisterRoutes(router)
	return repo, router
}

func createDraft(t *testing.T, router chi.Router) DraftResponse {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/drafts/", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp DraftResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotNil(t, resp.Draft)
	return resp
}

func patchField(t *testing.T, router chi.Router, draftID, field, value string) *DraftResponse {
	t.Helper()

	w := doJSON(t, router, http.MethodPatch, "/api/drafts/"+draftID, UpdateFieldRequest{
		Field: field,
		Value: value,
	})
	require.Equal(t, http.StatusOK, w.Code, "patch %s=%s", field, value)

	var resp DraftResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return &resp
}

func TestDraftFieldVisibilityFollowsItemType(t *testing.T) {
	_, router := newDraftFixture(t)
	created := createDraft(t, router)
	id := created.Draft.ID.String()

	resp := patchField(t, router, id, "itemType", "goods")
	assert.True(t, resp.VisibleFields["brand"])
	assert.True(t, resp.VisibleFields["initialStock"])
	assert.False(t, resp.VisibleFields["serviceDuration"])

	resp = patchField(t, router, id, "itemType", "services")
	assert.False(t, resp.VisibleFields["barcode"])
	assert.True(t, resp.VisibleFields["serviceDuration"])
}

func TestDraftProductTypeTransitionClearsVariants(t *testing.T) {
	_, router := newDraftFixture(t)
	created := createDraft(t, router)
	id := created.Draft.ID.String()

	patchField(t, router, id, "productType", "variant")

	w := doJSON(t, router, http.MethodPost, "/api/drafts/"+id+"/variants", AddVariantRequest{
		SKU:   "ELE-VAR-1001-BLU",
		Price: decimal.NewFromInt(499),
		Stock: 10,
		Color: "Blue",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp DraftResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Draft.Variants, 1)
	assert.True(t, resp.Draft.HasVariants)

	// Switching to simple wipes the variant rows
	after := patchField(t, router, id, "productType", "simple")
	assert.Empty(t, after.Draft.Variants)
	assert.False(t, after.Draft.HasVariants)
}

func TestDraftGenerateSKUAndBarcode(t *testing.T) {
	_, router := newDraftFixture(t)
	created := createDraft(t, router)
	id := created.Draft.ID.String()

	patchField(t, router, id, "category", "Electronics")
	patchField(t, router, id, "productType", "variant")

	w := doJSON(t, router, http.MethodPost, "/api/drafts/"+id+"/sku", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp DraftResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Regexp(t, `^ELE-VAR-\d{4}$`, resp.Draft.SKU)

	w = doJSON(t, router, http.MethodPost, "/api/drafts/"+id+"/barcode", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp.Draft.Barcode, 13)
	assert.Contains(t, resp.Draft.QRImageURL, "api.qrserver.com")
}

func TestDraftRejectsUnknownFieldAndBadValues(t *testing.T) {
	_, router := newDraftFixture(t)
	created := createDraft(t, router)
	id := created.Draft.ID.String()

	w := doJSON(t, router, http.MethodPatch, "/api/drafts/"+id, UpdateFieldRequest{
		Field: "flavour",
		Value: "vanilla",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPatch, "/api/drafts/"+id, UpdateFieldRequest{
		Field: "sellingPrice",
		Value: "-10",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitDraftCreatesProduct(t *testing.T) {
	repo, router := newDraftFixture(t)
	created := createDraft(t, router)
	id := created.Draft.ID.String()

	patchField(t, router, id, "name", "Wireless Mouse")
	patchField(t, router, id, "itemType", "goods")
	patchField(t, router, id, "productType", "simple")
	patchField(t, router, id, "category", "Electronics")
	patchField(t, router, id, "sellingPrice", "1299")
	patchField(t, router, id, "initialStock", "25")

	w := doJSON(t, router, http.MethodPost, "/api/drafts/"+id+"/submit", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp SubmitResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotNil(t, resp.Product)
	assert.Empty(t, resp.Warnings)

	products, err := repo.List(t.Context())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Wireless Mouse", products[0].Name)

	// The draft is gone after submit
	w = doJSON(t, router, http.MethodGet, "/api/drafts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitVariantDraftWithoutVariantsWarns(t *testing.T) {
	_, router := newDraftFixture(t)
	created := createDraft(t, router)
	id := created.Draft.ID.String()

	patchField(t, router, id, "name", "Cotton T-Shirt")
	patchField(t, router, id, "itemType", "goods")
	patchField(t, router, id, "productType", "variant")

	w := doJSON(t, router, http.MethodPost, "/api/drafts/"+id+"/submit", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp SubmitResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Contains(t, resp.Warnings, "variant product has no variants configured")
}

func TestSubmitDuplicateSKUIsConflict(t *testing.T) {
	repo, router := newDraftFixture(t)
	seedProduct(t, repo, "Wireless Mouse", "ELE-SIM-1001")

	created := createDraft(t, router)
	id := created.Draft.ID.String()
	patchField(t, router, id, "name", "Another Mouse")
	patchField(t, router, id, "itemType", "goods")
	patchField(t, router, id, "productType", "simple")
	patchField(t, router, id, "sku", "ELE-SIM-1001")

	w := doJSON(t, router, http.MethodPost, "/api/drafts/"+id+"/submit", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// A rejected submit keeps the draft for correction
	w = doJSON(t, router, http.MethodGet, "/api/drafts/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDiscardDraft(t *testing.T) {
	_, router := newDraftFixture(t)
	created := createDraft(t, router)
	id := created.Draft.ID.String()

	w := doJSON(t, router, http.MethodDelete, "/api/drafts/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/drafts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveVariantOverHTTP(t *testing.T) {
	_, router := newDraftFixture(t)
	created := createDraft(t, router)
	id := created.Draft.ID.String()

	patchField(t, router, id, "productType", "variant")

	w := doJSON(t, router, http.MethodPost, "/api/drafts/"+id+"/variants", AddVariantRequest{
		SKU:   "CLO-VAR-2001-RED",
		Price: decimal.NewFromInt(799),
		Stock: 5,
		Color: "Red",
		Size:  "M",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp DraftResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Draft.Variants, 1)
	variantID := resp.Draft.Variants[0].ID.String()

	w = doJSON(t, router, http.MethodDelete, "/api/drafts/"+id+"/variants/"+variantID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Empty(t, resp.Draft.Variants)

	w = doJSON(t, router, http.MethodDelete, "/api/drafts/"+id+"/variants/"+variantID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
