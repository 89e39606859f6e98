package transport

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"munc-inventory/internal/middleware"
	"munc-inventory/internal/scanner"
)

// GenerateCodeRequest asks the simulator for a fresh code of the given kind
type GenerateCodeRequest struct {
	Kind string `json:"kind" validate:"required,oneof=barcode ean"`
}

// ManualCodeRequest carries a manually typed code
type ManualCodeRequest struct {
	Code string `json:"code" validate:"required"`
}

// StartCaptureRequest opens a simulated camera capture
type StartCaptureRequest struct {
	Kind string `json:"kind" validate:"required,oneof=barcode ean"`
}

// CodeResponse carries a single scanned or generated code
type CodeResponse struct {
	Code string `json:"code"`
	Kind string `json:"kind,omitempty"`
}

// CaptureResponse is the state of one capture session
type CaptureResponse struct {
	ID         uuid.UUID           `json:"id"`
	Kind       scanner.CodeKind    `json:"kind"`
	Active     bool                `json:"active"`
	Detections []scanner.Detection `json:"detections"`
}

// ScanHandler handles HTTP requests for the scan simulator
type ScanHandler struct {
	manager *scanner.Manager
	logger  *zap.Logger
}

// NewScanHandler creates a new ScanHandler
func NewScanHandler(manager *scanner.Manager, logger *zap.Logger) *ScanHandler {
	return &ScanHandler{
		manager: manager,
		logger:  logger,
	}
}

// RegisterRoutes registers all scan routes
func (h *ScanHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/scan", func(r chi.Router) {
		r.Post("/codes", h.GenerateCode)
		r.Post("/manual", h.SubmitManualCode)
		r.Post("/images", h.DecodeImage)
		r.Post("/captures", h.StartCapture)
		r.Get("/captures/{id}", h.GetCapture)
		r.Delete("/captures/{id}", h.StopCapture)
	})
}

// GenerateCode returns a fresh synthetic code of the requested kind
func (h *ScanHandler) GenerateCode(w http.ResponseWriter, r *http.Request) {
	var req GenerateCodeRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Generate code validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	code, err := scanner.GenerateCode(scanner.CodeKind(req.Kind))
	if err != nil {
		h.logger.Error("Failed to generate code", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to generate code")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, CodeResponse{Code: code, Kind: req.Kind})
}

// SubmitManualCode accepts a typed code verbatim, trimming surrounding
// whitespace only
func (h *ScanHandler) SubmitManualCode(w http.ResponseWriter, r *http.Request) {
	var req ManualCodeRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Manual code validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	code, err := scanner.SubmitManualCode(req.Code)
	if err != nil {
		if errors.Is(err, scanner.ErrEmptyCode) {
			middleware.RespondWithError(w, http.StatusBadRequest, "code must not be empty")
			return
		}
		h.logger.Error("Failed to submit manual code", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to submit code")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CodeResponse{Code: code})
}

// DecodeImage simulates decoding a barcode out of an uploaded image; the
// image bytes are consumed but never inspected
func (h *ScanHandler) DecodeImage(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	code, err := scanner.DecodeImage(r.Body)
	if err != nil {
		h.logger.Error("Failed to decode image", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to decode image")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CodeResponse{Code: code, Kind: string(scanner.KindBarcode)})
}

// StartCapture opens a camera capture session and begins auto-detection
func (h *ScanHandler) StartCapture(w http.ResponseWriter, r *http.Request) {
	var req StartCaptureRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Start capture validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	capture, err := h.manager.StartCapture(r.Context(), scanner.CodeKind(req.Kind))
	if err != nil {
		if errors.Is(err, scanner.ErrCameraUnavailable) {
			middleware.RespondWithError(w, http.StatusServiceUnavailable, "camera unavailable")
			return
		}
		if errors.Is(err, scanner.ErrUnknownKind) {
			middleware.RespondWithError(w, http.StatusBadRequest, "unknown code kind")
			return
		}
		h.logger.Error("Failed to start capture", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to start capture")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, captureResponse(capture))
}

// GetCapture returns the capture state and its detection window
func (h *ScanHandler) GetCapture(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid capture ID")
		return
	}

	capture, err := h.manager.Get(id)
	if err != nil {
		if errors.Is(err, scanner.ErrCaptureNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "capture not found")
			return
		}
		h.logger.Error("Failed to get capture", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get capture")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, captureResponse(capture))
}

// StopCapture closes the capture session and releases its camera
func (h *ScanHandler) StopCapture(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid capture ID")
		return
	}

	if err := h.manager.StopCapture(id); err != nil {
		if errors.Is(err, scanner.ErrCaptureNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "capture not found")
			return
		}
		h.logger.Error("Failed to stop capture", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to stop capture")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "capture stopped"})
}

func captureResponse(c *scanner.Capture) CaptureResponse {
	detections := c.Detections()
	if detections == nil {
		detections = []scanner.Detection{}
	}
	return CaptureResponse{
		ID:         c.ID,
		Kind:       c.Kind,
		Active:     c.Active(),
		Detections: detections,
	}
}
