package server

import (
	"fmt"
	"net/http"
	"time"

	"munc-inventory/internal/config"
	"munc-inventory/internal/localstore"
	custommiddleware "munc-inventory/internal/middleware"
	"munc-inventory/internal/repository"
	"munc-inventory/internal/scanner"
	"munc-inventory/internal/service"
	"munc-inventory/internal/transport"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config  *config.Config
	logger  *zap.Logger
	store   *localstore.Store
	scanner *scanner.Manager
}

func NewServer(cfg *config.Config, logger *zap.Logger, store *localstore.Store) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	productRepo := repository.NewProductRepository()

	// Initialize services
	sessionService := service.NewSessionService(store, logger, service.SessionOptions{
		LoginDelay:                time.Duration(cfg.Session.LoginDelayMs) * time.Millisecond,
		MaxNotifications:          cfg.Session.MaxNotifications,
		KeepNotificationsOnLogout: cfg.Session.KeepNotifsOnLogout,
	})
	draftService := service.NewDraftService(productRepo, logger)

	// The scan simulator sits behind its own manager so nothing above this
	// line knows whether a real camera exists
	scanManager := scanner.NewManager(nil, scanner.Options{
		GenerateDelay:     time.Duration(cfg.Scan.GenerateDelayMs) * time.Millisecond,
		DetectInterval:    time.Duration(cfg.Scan.DetectIntervalMs) * time.Millisecond,
		DetectProbability: cfg.Scan.DetectProbability,
	}, logger)

	// Initialize handlers
	authHandler := transport.NewAuthHandler(sessionService, logger)
	productHandler := transport.NewProductHandler(productRepo, logger)
	draftHandler := transport.NewDraftHandler(draftService, logger)
	scanHandler := transport.NewScanHandler(scanManager, logger)

	// Register routes
	authHandler.RegisterRoutes(router)
	productHandler.RegisterRoutes(router)
	draftHandler.RegisterRoutes(router)
	scanHandler.RegisterRoutes(router)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:  cfg,
		logger:  logger,
		store:   store,
		scanner: scanManager,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Release any cameras still held by capture sessions
	if s.scanner != nil {
		s.scanner.Shutdown()
	}

	// Close the local store
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error("Failed to close local store", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
