package server

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"time"

	"restaurant-pos/internal/config"
	"restaurant-pos/internal/database"
	"restaurant-pos/internal/legacyinput"
	custommiddleware "restaurant-pos/internal/middleware"
	"restaurant-pos/internal/repository"
	"restaurant-pos/internal/service"
	"restaurant-pos/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type healthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *database.Service
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *database.Service) *Server {
	var redisClient *redis.Client
	if cfg.RateLimit.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      newRouter(cfg, logger, db.DB(), db, redisClient),
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

// newRouter wires repositories, services and handlers onto one chi router.
// A nil redisClient disables rate limiting.
func newRouter(cfg *config.Config, logger *zap.Logger, db *sql.DB, health healthChecker, redisClient *redis.Client) chi.Router {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.IsDevelopment()))

	router.Get("/health", healthHandler(health))

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, categoryRepo)
	employeeService := service.NewEmployeeService(employeeRepo)
	orderService := service.NewOrderService(orderRepo, logger)

	// Initialize handlers
	orderHandler := transport.NewOrderHandler(orderService, legacyinput.NewAdapter(logger), logger)
	productHandler := transport.NewProductHandler(catalogService, logger)
	categoryHandler := transport.NewCategoryHandler(catalogService, logger)
	employeeHandler := transport.NewEmployeeHandler(employeeService, logger)

	router.Group(func(r chi.Router) {
		if redisClient != nil {
			r.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
				Window:            cfg.RateLimit.Window,
				KeyPrefix:         "pos_rate_limit",
			}, logger))
		}

		orderHandler.RegisterRoutes(r)
		productHandler.RegisterRoutes(r)
		categoryHandler.RegisterRoutes(r)
		employeeHandler.RegisterRoutes(r)
	})

	return router
}

func healthHandler(health healthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := health.Health(r.Context())
		status := http.StatusOK
		if stats["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, stats)
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
