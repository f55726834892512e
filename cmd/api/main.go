package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nskaret/lingoread/internal/auth"
	"github.com/nskaret/lingoread/internal/background"
	"github.com/nskaret/lingoread/internal/config"
	"github.com/nskaret/lingoread/internal/database"
	"github.com/nskaret/lingoread/internal/handlers"
	middlewareCustom "github.com/nskaret/lingoread/internal/middleware"
	"github.com/nskaret/lingoread/internal/models"
	"github.com/nskaret/lingoread/internal/repositories"
	"github.com/nskaret/lingoread/internal/routes"
	"github.com/nskaret/lingoread/internal/services"
	pkgauth "github.com/nskaret/lingoread/pkg/auth"
	pkglogger "github.com/nskaret/lingoread/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	codeRepo := repositories.NewActivationCodeRepository(db)
	blogRepo := repositories.NewBlogRepository(db)

	// Initialize cleanup manager
	cleanupManager := background.NewCleanupManager(codeRepo, logger, cfg.Auth.CleanupInterval, cfg.Auth.CodeRetention)

	// Initialize token manager
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)

	auditLogger := pkglogger.NewAuditLogger(logger)

	// Timing delay evens out login failure responses
	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:   100,
		RandomDelayMs: 50,
	})

	// AWS SES email delivery for activation codes, optional
	var emailService services.EmailSender
	if cfg.Email.Enabled {
		sesService, err := services.NewAWSSESEmailService(cfg.Email.AWSRegion, cfg.Email.FromAddress, logger)
		if err != nil {
			logger.Error("failed to initialize email service", slog.Any("error", err))
			os.Exit(1)
		}
		emailService = sesService
	}

	// Initialize services
	lockout := services.LockoutPolicy{
		MaxAttempts:     cfg.Auth.MaxLoginAttempts,
		LockoutDuration: cfg.Auth.LockoutDuration,
	}
	authService := services.NewAuthService(userRepo, codeRepo, tokenManager, lockout, timingDelay, logger, auditLogger)
	blogService := services.NewBlogService(blogRepo, logger)
	adminService := services.NewAdminService(userRepo, codeRepo, blogRepo, emailService, logger, auditLogger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, nil)
	blogHandler := handlers.NewBlogHandler(blogService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Bootstrap first admin user if configured
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ensureAdminUser(ctx, userRepo, logger); err != nil {
		logger.Error("failed to ensure admin user", slog.Any("error", err))
	}
	cancel()

	// Setup CORS middleware
	corsConfig := middlewareCustom.DefaultCORSConfig(cfg.Server.Env)
	corsConfig.AllowedOrigins = cfg.Server.AllowedOrigins

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	rateLimitConfig := middlewareCustom.RateLimitConfig{
		Requests: cfg.Auth.RateLimitRequests,
		Window:   cfg.Auth.RateLimitWindow,
	}
	routes.RegisterRoutes(router, authHandler, blogHandler, adminHandler, tokenManager, userRepo, rateLimitConfig)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// ensureAdminUser creates the first admin user if ADMIN_EMAIL and ADMIN_PASSWORD are set
func ensureAdminUser(ctx context.Context, userRepo *repositories.UserRepository, logger *slog.Logger) error {
	// Normalized the same way Login resolves accounts, so an uppercase
	// env value still yields a reachable admin
	adminEmail := models.NormalizeEmail(os.Getenv("ADMIN_EMAIL"))
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		logger.Info("no ADMIN_EMAIL or ADMIN_PASSWORD set, skipping admin user creation")
		return nil
	}

	// Check if admin already exists
	_, err := userRepo.GetByEmail(ctx, adminEmail)
	if err == nil {
		logger.Info("admin user already exists")
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to check if admin exists: %w", err)
	}

	hashedPassword, err := pkgauth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Email:        adminEmail,
		PasswordHash: hashedPassword,
		IsActivated:  true,
		IsAdmin:      true,
	}

	_, err = userRepo.Create(ctx, admin)
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("admin user created successfully")
	return nil
}
