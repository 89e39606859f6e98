package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"munc-inventory/internal/domain"
	"munc-inventory/internal/localstore"
)

var ErrNotificationNotFound = errors.New("notification not found")

const avatarEndpoint = "https://ui-avatars.com/api/"

// SessionOptions tune the session behaviour
type SessionOptions struct {
	// LoginDelay simulates the network round trip of a real sign-in
	LoginDelay time.Duration
	// MaxNotifications caps the feed; the oldest entries are evicted first
	MaxNotifications int
	// KeepNotificationsOnLogout controls whether the feed survives logout.
	// The web client kept it; set false to scope notifications to a session.
	KeepNotificationsOnLogout bool
}

// DefaultSessionOptions matches the web client's behaviour
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		LoginDelay:                time.Second,
		MaxNotifications:          50,
		KeepNotificationsOnLogout: true,
	}
}

// SessionService defines the interface for the session and its notification
// feed. There is deliberately no credential check anywhere: sign-in is an
// unauthenticated simulation, every attempt succeeds.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*domain.UserProfile, error)
	Signup(ctx context.Context, name, email, password string) (*domain.UserProfile, error)
	Logout() error
	CurrentUser() *domain.UserProfile
	IsAuthenticated() bool
	Notifications() []domain.Notification
	AddNotification(n domain.Notification) (domain.Notification, error)
	MarkNotificationRead(id uuid.UUID) error
	ClearNotifications() error
}

type sessionService struct {
	mu            sync.RWMutex
	store         *localstore.Store
	logger        *zap.Logger
	opts          SessionOptions
	user          *domain.UserProfile
	notifications []domain.Notification
}

// NewSessionService creates a session seeded from the local store. Absent or
// corrupt entries leave the session empty.
func NewSessionService(store *localstore.Store, logger *zap.Logger, opts SessionOptions) SessionService {
	s := &sessionService{
		store:  store,
		logger: logger,
		opts:   opts,
	}

	var profile domain.UserProfile
	found, err := store.Get(localstore.KeyUser, &profile)
	if err != nil {
		logger.Error("Failed to load saved user", zap.Error(err))
	} else if found {
		s.user = &profile
		logger.Info("Restored saved session", zap.String("email", profile.Email))
	}

	var notifications []domain.Notification
	found, err = store.Get(localstore.KeyNotifications, &notifications)
	if err != nil {
		logger.Error("Failed to load saved notifications", zap.Error(err))
	} else if found {
		s.notifications = notifications
	}

	return s
}

// Login signs the user in after a simulated delay. It always succeeds: the
// display name is derived from the email local-part and the avatar from the
// external avatar endpoint.
func (s *sessionService) Login(ctx context.Context, email, password string) (*domain.UserProfile, error) {
	if err := s.simulateDelay(ctx); err != nil {
		return nil, err
	}

	name := email
	if at := strings.Index(email, "@"); at >= 0 {
		name = email[:at]
	}

	profile := s.establishSession(name, email)

	if _, err := s.AddNotification(domain.Notification{
		Title:    "Welcome Back!",
		Message:  "You have successfully logged in to MUN-C Inventory System.",
		Severity: domain.SeveritySuccess,
	}); err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", zap.String("email", email))
	return profile, nil
}

// Signup creates an account with the supplied display name. Like Login it
// always succeeds after the simulated delay.
func (s *sessionService) Signup(ctx context.Context, name, email, password string) (*domain.UserProfile, error) {
	if err := s.simulateDelay(ctx); err != nil {
		return nil, err
	}

	profile := s.establishSession(name, email)

	if _, err := s.AddNotification(domain.Notification{
		Title:    "Account Created!",
		Message:  "Welcome to MUN-C Inventory System. Your account has been created successfully.",
		Severity: domain.SeveritySuccess,
	}); err != nil {
		return nil, err
	}

	s.logger.Info("User signed up", zap.String("email", email))
	return profile, nil
}

func (s *sessionService) establishSession(name, email string) *domain.UserProfile {
	profile := &domain.UserProfile{
		ID:     uuid.New(),
		Name:   name,
		Email:  email,
		Avatar: avatarURL(name),
	}

	s.mu.Lock()
	s.user = profile
	s.mu.Unlock()

	if err := s.store.Put(localstore.KeyUser, profile); err != nil {
		s.logger.Error("Failed to persist user profile", zap.Error(err))
	}

	out := *profile
	return &out
}

// Logout clears the profile in memory and in the store. When notifications
// are session-scoped the feed is cleared too, otherwise a "Logged Out" entry
// is appended to the surviving feed.
func (s *sessionService) Logout() error {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	if err := s.store.Delete(localstore.KeyUser); err != nil {
		return fmt.Errorf("failed to clear persisted user: %w", err)
	}

	if !s.opts.KeepNotificationsOnLogout {
		s.logger.Info("User logged out")
		return s.ClearNotifications()
	}

	if _, err := s.AddNotification(domain.Notification{
		Title:    "Logged Out",
		Message:  "You have been successfully logged out.",
		Severity: domain.SeverityInfo,
	}); err != nil {
		return err
	}

	s.logger.Info("User logged out")
	return nil
}

// CurrentUser returns the signed-in user, or nil
func (s *sessionService) CurrentUser() *domain.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	out := *s.user
	return &out
}

// IsAuthenticated reports whether a user is signed in
func (s *sessionService) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Notifications returns the feed, newest first
func (s *sessionService) Notifications() []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// AddNotification prepends a notification with a generated id and timestamp,
// truncates the feed to the configured cap and persists it
func (s *sessionService) AddNotification(n domain.Notification) (domain.Notification, error) {
	n.ID = uuid.New()
	n.Timestamp = time.Now()

	s.mu.Lock()
	s.notifications = append([]domain.Notification{n}, s.notifications...)
	if len(s.notifications) > s.opts.MaxNotifications {
		s.notifications = s.notifications[:s.opts.MaxNotifications]
	}
	snapshot := make([]domain.Notification, len(s.notifications))
	copy(snapshot, s.notifications)
	s.mu.Unlock()

	if err := s.store.Put(localstore.KeyNotifications, snapshot); err != nil {
		return domain.Notification{}, fmt.Errorf("failed to persist notifications: %w", err)
	}

	return n, nil
}

// MarkNotificationRead flags a single notification as read and persists
func (s *sessionService) MarkNotificationRead(id uuid.UUID) error {
	s.mu.Lock()
	found := false
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			found = true
			break
		}
	}
	snapshot := make([]domain.Notification, len(s.notifications))
	copy(snapshot, s.notifications)
	s.mu.Unlock()

	if !found {
		return ErrNotificationNotFound
	}

	if err := s.store.Put(localstore.KeyNotifications, snapshot); err != nil {
		return fmt.Errorf("failed to persist notifications: %w", err)
	}
	return nil
}

// ClearNotifications empties the feed and removes its persisted copy
func (s *sessionService) ClearNotifications() error {
	s.mu.Lock()
	s.notifications = nil
	s.mu.Unlock()

	if err := s.store.Delete(localstore.KeyNotifications); err != nil {
		return fmt.Errorf("failed to clear persisted notifications: %w", err)
	}
	return nil
}

// simulateDelay stands in for the network latency of a real auth backend
func (s *sessionService) simulateDelay(ctx context.Context) error {
	if s.opts.LoginDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(s.opts.LoginDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func avatarURL(name string) string {
	return fmt.Sprintf("%s?name=%s&background=3b82f6&color=fff", avatarEndpoint, url.QueryEscape(name))
}
