package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"bikeparts/internal/cache"
	"bikeparts/internal/config"
	custommiddleware "bikeparts/internal/middleware"
	"bikeparts/internal/notify"
	"bikeparts/internal/repository"
	"bikeparts/internal/service"
	"bikeparts/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Redis backs the catalog mirror, the order count baseline, and rate limiting
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 300,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit",
	}, logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// Initialize notification plumbing
	hub := notify.NewHub(logger)
	sound := notify.NewLogSoundPlayer(logger)
	linker := notify.NewWhatsAppLinker(cfg.Notify.CountryCode)

	// Initialize services
	userService := service.NewUserService(userRepo, refreshTokenRepo, cfg.JWT.Secret, cfg.Admin.Emails)
	catalogMirror := cache.NewCatalogCache(redisClient, time.Duration(cfg.Catalog.CacheTTL)*time.Hour)
	catalogService := service.NewCatalogService(productRepo, catalogMirror, logger)
	cartService := service.NewCartService(productRepo)
	countStore := cache.NewOrderCountStore(redisClient)
	orderService := service.NewOrderService(orderRepo, profileRepo, countStore, sound, hub, linker, logger)
	dashboardService := service.NewDashboardService()

	// Warm the catalog snapshot; a cold store just serves an empty catalog
	// until the first refresh succeeds.
	if err := catalogService.Refresh(context.Background()); err != nil {
		logger.Warn("Initial catalog refresh failed", zap.Error(err))
	}
	if err := orderService.Refresh(context.Background()); err != nil {
		logger.Warn("Initial order refresh failed", zap.Error(err))
	}

	// Initialize handlers
	userHandler := transport.NewUserHandler(userService, logger)
	productHandler := transport.NewProductHandler(catalogService, logger)
	cartHandler := transport.NewCartHandler(cartService, logger)
	orderHandler := transport.NewOrderHandler(orderService, cartService, hub, logger)
	dashboardHandler := transport.NewDashboardHandler(dashboardService, orderService, catalogService, logger)

	// Create auth middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)

	// Register routes
	userHandler.RegisterRoutes(router, authMiddleware)
	productHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	cartHandler.RegisterRoutes(router, authMiddleware)
	orderHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	dashboardHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	// Close redis connection
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
