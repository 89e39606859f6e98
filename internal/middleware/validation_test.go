package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

func newTestLogger() *zap.Logger {
	return zap.NewNop()
}

// Request shape used by the product endpoints
type createProductRequest struct {
	Name         string  `json:"name" validate:"required"`
	SKU          string  `json:"sku" validate:"required"`
	SellingPrice float64 `json:"sellingPrice" validate:"gte=0"`
}

// Property: requests missing required fields never pass validation
func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing required fields are rejected", prop.ForAll(
		func(includeName bool, includeSKU bool) bool {
			reqMap := make(map[string]interface{})

			if includeName {
				reqMap["name"] = "Desk Lamp"
			}
			if includeSKU {
				reqMap["sku"] = "LIG-SIM-1234"
			}
			reqMap["sellingPrice"] = 1299.0

			allFieldsPresent := includeName && includeSKU

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/api/products", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var body createProductRequest
			err := DecodeAndValidate(req, &body)

			if allFieldsPresent {
				return err == nil
			}
			return err != nil
		},
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: negative prices never pass validation
func TestProperty_NegativePricesAreRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("sellingPrice below zero fails validation", prop.ForAll(
		func(price float64) bool {
			reqMap := map[string]interface{}{
				"name":         "Desk Lamp",
				"sku":          "LIG-SIM-1234",
				"sellingPrice": price,
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/api/products", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var body createProductRequest
			err := DecodeAndValidate(req, &body)

			if price >= 0 {
				return err == nil
			}
			return err != nil
		},
		gen.Float64Range(-1e6, 1e6),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestFormatValidationErrors(t *testing.T) {
	reqMap := map[string]interface{}{
		"sku":          "LIG-SIM-1234",
		"sellingPrice": -1.0,
	}

	reqBody, _ := json.Marshal(reqMap)
	req := httptest.NewRequest("POST", "/api/products", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	var body createProductRequest
	err := DecodeAndValidate(req, &body)
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	validationErrors := FormatValidationErrors(err)
	if len(validationErrors) == 0 {
		t.Fatal("expected formatted validation errors")
	}
	for _, ve := range validationErrors {
		if ve.Field == "" || ve.Message == "" {
			t.Fatalf("incomplete validation error: %+v", ve)
		}
	}
}

func TestDecodeAndValidateRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/products", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	var body createProductRequest
	if err := DecodeAndValidate(req, &body); err == nil {
		t.Fatal("expected decode error")
	}
}
