package transport

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"munc-inventory/internal/domain"
	"munc-inventory/internal/middleware"
	"munc-inventory/internal/service"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest represents the signup request payload
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AddNotificationRequest represents a manually pushed notification
type AddNotificationRequest struct {
	Title    string `json:"title" validate:"required"`
	Message  string `json:"message"`
	Severity string `json:"type" validate:"omitempty,oneof=success info warning error"`
}

// SessionResponse represents the session state returned to the UI
type SessionResponse struct {
	User            *domain.UserProfile `json:"user"`
	IsAuthenticated bool                `json:"isAuthenticated"`
}

// AuthHandler handles HTTP requests for the session and its notifications
type AuthHandler struct {
	session service.SessionService
	logger  *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(session service.SessionService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		session: session,
		logger:  logger,
	}
}

// RegisterRoutes registers all session routes
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/signup", h.Signup)
		r.Post("/logout", h.Logout)
		r.Get("/profile", h.GetProfile)
	})

	r.Route("/api/notifications", func(r chi.Router) {
		r.Get("/", h.ListNotifications)
		r.Post("/", h.AddNotification)
		r.Post("/{id}/read", h.MarkNotificationRead)
		r.Delete("/", h.ClearNotifications)
	})
}

// Login handles user sign-in. The session layer always accepts; validation
// here only guards the request shape.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.session.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("Login failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to login")
		return
	}

	h.logger.Info("User logged in", zap.String("user_id", profile.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, SessionResponse{User: profile, IsAuthenticated: true})
}

// Signup handles account creation
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Signup validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.session.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.logger.Error("Signup failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to sign up")
		return
	}

	h.logger.Info("User signed up", zap.String("user_id", profile.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, SessionResponse{User: profile, IsAuthenticated: true})
}

// Logout clears the session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(); err != nil {
		h.logger.Error("Logout failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to logout")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

// GetProfile returns the current session state
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, SessionResponse{
		User:            h.session.CurrentUser(),
		IsAuthenticated: h.session.IsAuthenticated(),
	})
}

// ListNotifications returns the notification feed, newest first
func (h *AuthHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications := h.session.Notifications()
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, notifications)
}

// AddNotification pushes a notification into the feed
func (h *AuthHandler) AddNotification(w http.ResponseWriter, r *http.Request) {
	var req AddNotificationRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Notification validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	severity := domain.Severity(req.Severity)
	if severity == "" {
		severity = domain.SeverityInfo
	}

	added, err := h.session.AddNotification(domain.Notification{
		Title:    req.Title,
		Message:  req.Message,
		Severity: severity,
	})
	if err != nil {
		h.logger.Error("Failed to add notification", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add notification")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, added)
}

// MarkNotificationRead flags a notification as read
func (h *AuthHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid notification ID")
		return
	}

	if err := h.session.MarkNotificationRead(id); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "notification not found")
			return
		}
		h.logger.Error("Failed to mark notification read", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to mark notification read")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "notification marked as read"})
}

// ClearNotifications empties the feed
func (h *AuthHandler) ClearNotifications(w http.ResponseWriter, r *http.Request) {
	if err := h.session.ClearNotifications(); err != nil {
		h.logger.Error("Failed to clear notifications", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to clear notifications")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "notifications cleared"})
}
