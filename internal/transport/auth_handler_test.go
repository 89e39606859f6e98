package transport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"munc-inventory/internal/domain"
	"munc-inventory/internal/localstore"
	"munc-inventory/internal/service"
)

func newSessionFixture(t *testing.T) (service.SessionService, chi.Router) {
	t.Helper()

	logger := zap.NewNop()
	store, err := localstore.Open(filepath.Join(t.TempDir(), "state.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	opts := service.DefaultSessionOptions()
	opts.LoginDelay = 0
	session := service.NewSessionService(store, logger, opts)

	router := chi.NewRouter()
	NewAuthHandler(session, logger).RegisterRoutes(router)
	return session, router
}

func doJSON(t *testing.T, router chi.Router, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLoginReturnsProfileAndWelcomeNotification(t *testing.T) {
	_, router := newSessionFixture(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "whatever",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp SessionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.IsAuthenticated)
	require.NotNil(t, resp.User)
	assert.Equal(t, "alice", resp.User.Name)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Contains(t, resp.User.Avatar, "ui-avatars.com")

	feed := doJSON(t, router, http.MethodGet, "/api/notifications/", nil)
	require.Equal(t, http.StatusOK, feed.Code)

	var notifications []domain.Notification
	require.NoError(t, json.NewDecoder(feed.Body).Decode(&notifications))
	require.NotEmpty(t, notifications)
	assert.Equal(t, "Welcome Back!", notifications[0].Title)
	assert.Equal(t, domain.SeveritySuccess, notifications[0].Severity)
}

func TestSignupCreatesSession(t *testing.T) {
	_, router := newSessionFixture(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/signup", SignupRequest{
		Name:     "Bob Singh",
		Email:    "bob@example.com",
		Password: "whatever",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp SessionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.IsAuthenticated)
	assert.Equal(t, "Bob Singh", resp.User.Name)
}

func TestProperty_MalformedAuthPayloadIsRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests without a valid email are rejected", prop.ForAll(
		func(email string) bool {
			_, router := newSessionFixture(t)

			w := doJSON(t, router, http.MethodPost, "/api/auth/login", LoginRequest{
				Email:    email,
				Password: "whatever",
			})
			if w.Code != http.StatusBadRequest {
				return false
			}

			var response map[string]interface{}
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				return false
			}
			_, exists := response["error"]
			return exists
		},
		gen.OneConstOf("", "not-an-email", "@", "missing-domain@"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestLogoutClearsSessionButKeepsFeed(t *testing.T) {
	session, router := newSessionFixture(t)

	doJSON(t, router, http.MethodPost, "/api/auth/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "whatever",
	})

	w := doJSON(t, router, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	profile := doJSON(t, router, http.MethodGet, "/api/auth/profile", nil)
	var resp SessionResponse
	require.NoError(t, json.NewDecoder(profile.Body).Decode(&resp))
	assert.False(t, resp.IsAuthenticated)
	assert.Nil(t, resp.User)

	// Default config keeps the feed across logout and adds a logged-out entry
	notifications := session.Notifications()
	require.NotEmpty(t, notifications)
	assert.Equal(t, "Logged Out", notifications[0].Title)
}

func TestNotificationLifecycleOverHTTP(t *testing.T) {
	_, router := newSessionFixture(t)

	created := doJSON(t, router, http.MethodPost, "/api/notifications/", AddNotificationRequest{
		Title:    "Stock Alert",
		Message:  "Blue T-Shirt is running low.",
		Severity: "warning",
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var n domain.Notification
	require.NoError(t, json.NewDecoder(created.Body).Decode(&n))
	assert.False(t, n.Read)

	read := doJSON(t, router, http.MethodPost, "/api/notifications/"+n.ID.String()+"/read", nil)
	require.Equal(t, http.StatusOK, read.Code)

	cleared := doJSON(t, router, http.MethodDelete, "/api/notifications/", nil)
	require.Equal(t, http.StatusOK, cleared.Code)

	feed := doJSON(t, router, http.MethodGet, "/api/notifications/", nil)
	var notifications []domain.Notification
	require.NoError(t, json.NewDecoder(feed.Body).Decode(&notifications))
	assert.Empty(t, notifications)
}

func TestMarkUnknownNotificationReturns404(t *testing.T) {
	_, router := newSessionFixture(t)

	w := doJSON(t, router, http.MethodPost, "/api/notifications/0a9c2a4e-54d4-4b0f-9f5e-1f0e917c94af/read", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
