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
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/wexford-labs/widgetry/internal/auth"
	"github.com/wexford-labs/widgetry/internal/background"
	"github.com/wexford-labs/widgetry/internal/config"
	"github.com/wexford-labs/widgetry/internal/database"
	"github.com/wexford-labs/widgetry/internal/handlers"
	"github.com/wexford-labs/widgetry/internal/middleware"
	"github.com/wexford-labs/widgetry/internal/models"
	"github.com/wexford-labs/widgetry/internal/query"
	"github.com/wexford-labs/widgetry/internal/repositories"
	"github.com/wexford-labs/widgetry/internal/routes"
	"github.com/wexford-labs/widgetry/internal/services"
	"github.com/wexford-labs/widgetry/internal/sessions"
	pkgauth "github.com/wexford-labs/widgetry/pkg/auth"
	"github.com/wexford-labs/widgetry/pkg/gravatar"
	pkglogger "github.com/wexford-labs/widgetry/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	widgetRepo := repositories.NewWidgetRepository(db)
	postRepo := repositories.NewPostRepository(db)
	profileRepo := repositories.NewProfileRepository(db)

	// Attempt store: Redis when configured, process-local otherwise.
	var attemptStore sessions.AttemptStore
	if cfg.Sessions.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Sessions.RedisAddr,
			Password: cfg.Sessions.RedisPassword,
			DB:       cfg.Sessions.RedisDB,
		})
		redisStore := sessions.NewRedisStore(redisClient, cfg.Sessions.TTL)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisStore.Ping(ctx); err != nil {
			cancel()
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		cancel()
		attemptStore = redisStore
	} else {
		logger.Info("no REDIS_ADDR configured, using in-memory attempt store")
		attemptStore = sessions.NewMemoryStore(cfg.Sessions.TTL)
	}

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	auditLogger := pkglogger.NewAuditLogger(logger)

	emailService, err := services.NewEmailService(context.Background(), cfg.Email, logger)
	if err != nil {
		logger.Error("failed to initialize email service", slog.Any("error", err))
		os.Exit(1)
	}

	// Services
	authService := services.NewAuthService(userRepo, attemptStore, tokenManager,
		emailService, auditLogger, cfg.Auth, cfg.Email.AppBaseURL, logger)
	userService := services.NewUserService(userRepo, auditLogger)
	widgetService := services.NewWidgetService(widgetRepo, auditLogger)
	postService := services.NewPostService(postRepo, auditLogger)
	profileService := services.NewProfileService(profileRepo, userRepo, auditLogger, logger)

	// List query machinery
	runner := query.NewRunner(db)
	limits := query.Limits{Default: cfg.Query.DefaultLimit, Max: cfg.Query.MaxLimit}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, cfg, logger)
	userHandler := handlers.NewUserHandler(userService, runner, limits, logger)
	widgetHandler := handlers.NewWidgetHandler(widgetService, runner, limits, logger)
	postHandler := handlers.NewPostHandler(postService, runner, limits, logger)
	profileHandler := handlers.NewProfileHandler(profileService, runner, limits, logger)

	// Background sweep of expired reset tokens
	cleaner := background.NewCleaner(userRepo, cfg.Auth.CleanupInterval, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ensureAdminUser(ctx, userRepo, logger); err != nil {
		logger.Error("failed to ensure admin user", slog.Any("error", err))
	}
	cancel()

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.SecurityHeaders(cfg.Server.IsProduction()))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Session(cfg.Sessions.TTL, cfg.Server.IsProduction()))
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Timeout(60 * time.Second))

	router.Route("/api/v1", func(r chi.Router) {
		routes.RegisterRoutes(r, authHandler, userHandler, widgetHandler,
			postHandler, profileHandler, tokenManager, userRepo)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := db.HealthCheck(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	cleaner.Start(cleanupCtx)

	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleaner.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// ensureAdminUser creates the first admin account when ADMIN_EMAIL and
// ADMIN_PASSWORD are set, so a fresh deployment is reachable.
func ensureAdminUser(ctx context.Context, userRepo *repositories.UserRepository, logger *slog.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		logger.Info("no ADMIN_EMAIL or ADMIN_PASSWORD set, skipping admin user creation")
		return nil
	}

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

	_, err = userRepo.Create(ctx, &models.User{
		Name:         "Admin",
		Email:        adminEmail,
		PasswordHash: hashedPassword,
		AvatarURL:    gravatar.URL(adminEmail, gravatar.DefaultOptions),
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("admin user created successfully")
	return nil
}
