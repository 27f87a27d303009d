package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/academix/records/internal/audit"
	"github.com/academix/records/internal/auth"
	"github.com/academix/records/internal/config"
	"github.com/academix/records/internal/course"
	"github.com/academix/records/internal/dashboard"
	"github.com/academix/records/internal/database"
	"github.com/academix/records/internal/health"
	"github.com/academix/records/internal/middleware"
	"github.com/academix/records/internal/profile"
	"github.com/academix/records/internal/ratelimit"
	"github.com/academix/records/internal/registration"
	"github.com/academix/records/internal/student"
	"github.com/academix/records/internal/token"
	"github.com/academix/records/internal/user"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.IsDevelopment() {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting AcademiX records service", zap.String("env", cfg.Env))

	ctx := context.Background()

	// Connect to PostgreSQL
	db, err := database.NewPostgresDB(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer db.Close()
	if err := database.EnsureSchema(ctx, db.DB); err != nil {
		logger.Fatal("Failed to apply schema", zap.Error(err))
	}
	logger.Info("Connected to PostgreSQL")

	// Connect to Redis
	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Connected to Redis")

	// Deleted-student audit trail
	trail, err := audit.Open(cfg.Audit.LogPath)
	if err != nil {
		logger.Fatal("Failed to open audit log", zap.Error(err))
	}
	defer trail.Close()

	// Initialize services
	tokenService, err := token.NewService(cfg.JWT.SecretKey)
	if err != nil {
		logger.Fatal("Failed to initialize token service", zap.Error(err))
	}
	rateLimiter := ratelimit.NewLimiter(
		redisClient.Client,
		cfg.RateLimit.Window,
		cfg.RateLimit.MaxAttempts,
		cfg.RateLimit.LockoutDuration,
	)

	userRepo := user.NewRepository(db.DB)
	studentRepo := student.NewRepository(db.DB)
	courseRepo := course.NewRepository(db.DB)
	registrationRepo := registration.NewRepository(db.DB)

	authService := auth.NewService(userRepo, tokenService, rateLimiter, logger)

	// Initialize handlers
	authHandler := auth.NewHandler(authService)
	studentHandler := student.NewHandler(studentRepo, trail, logger)
	courseHandler := course.NewHandler(courseRepo)
	registrationHandler := registration.NewHandler(registrationRepo)
	profileHandler := profile.NewHandler(studentRepo, registrationRepo, logger)
	dashboardHandler := dashboard.NewHandler(studentRepo, courseRepo, registrationRepo)

	// Set up Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(middleware.ParseAllowedOrigins(cfg.CORS.AllowedOrigins)))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics())

	// Public routes
	router.GET("/health", health.Handler(map[string]health.Checker{
		"postgres": db,
		"redis":    redisClient,
	}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.POST("/login", authHandler.Login)

	// Authenticated routes
	authed := api.Group("", middleware.Auth(tokenService))
	{
		authed.GET("/me", authHandler.Me)

		authed.GET("/courses", courseHandler.List)
		authed.GET("/courses/:id", courseHandler.Get)

		authed.GET("/profile", profileHandler.Get)
		authed.GET("/profile/:id", profileHandler.Get)

		authed.GET("/student-profile", middleware.RequireRole(token.RoleStudent), profileHandler.Self)
	}

	// Admin routes
	admin := authed.Group("", middleware.RequireRole(token.RoleAdmin))
	{
		admin.GET("/students", studentHandler.List)
		admin.GET("/students/deleted", studentHandler.Deleted)
		admin.GET("/students/:id", studentHandler.Get)
		admin.POST("/students", studentHandler.Create)
		admin.PUT("/students/:id", studentHandler.Update)
		admin.DELETE("/students/:id", studentHandler.Delete)

		admin.POST("/courses", courseHandler.Create)
		admin.PUT("/courses/:id", courseHandler.Update)
		admin.DELETE("/courses/:id", courseHandler.Delete)

		admin.GET("/registrations", registrationHandler.List)
		admin.POST("/registrations", registrationHandler.Create)

		admin.GET("/dashboard/stats", dashboardHandler.Stats)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}
