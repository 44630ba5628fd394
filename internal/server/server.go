package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"feira-hub/internal/config"
	"feira-hub/internal/domain"
	custommiddleware "feira-hub/internal/middleware"
	"feira-hub/internal/repository"
	"feira-hub/internal/service"
	"feira-hub/internal/transport"

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

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	// Initialize services
	accessExpiry := time.Duration(cfg.JWT.AccessExpiry) * time.Minute
	userService := service.NewUserService(userRepo, storeRepo, service.NewBcryptVerifier(), cfg.JWT.Secret, accessExpiry)
	productService := service.NewProductService(productRepo, storeRepo, orderRepo)
	orderService := service.NewOrderService(orderRepo, productRepo, storeRepo, userRepo)
	messageService := service.NewMessageService(messageRepo, orderRepo)
	feedbackService := service.NewFeedbackService(feedbackRepo, productRepo, userRepo)

	// Initialize handlers
	userHandler := transport.NewUserHandler(userService, logger)
	productHandler := transport.NewProductHandler(productService, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)
	messageHandler := transport.NewMessageHandler(messageService, logger)
	feedbackHandler := transport.NewFeedbackHandler(feedbackService, logger)

	// Create auth and authorization middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	requireConsumer := custommiddleware.RequireRole([]string{string(domain.RoleConsumer)}, logger)
	requireProducer := custommiddleware.RequireRole([]string{string(domain.RoleProducer)}, logger)
	requireAnyRole := custommiddleware.RequireRole([]string{string(domain.RoleConsumer), string(domain.RoleProducer)}, logger)

	// Rate limiter for credential endpoints
	rateLimiter := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:auth",
	}, logger)

	// Register routes
	userHandler.RegisterRoutes(router, authMiddleware, rateLimiter)
	productHandler.RegisterRoutes(router, authMiddleware, requireProducer)
	orderHandler.RegisterRoutes(router, authMiddleware, requireConsumer, requireProducer, requireAnyRole)
	messageHandler.RegisterRoutes(router, authMiddleware)
	feedbackHandler.RegisterRoutes(router, authMiddleware, requireConsumer)

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

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
