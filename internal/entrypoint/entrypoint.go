package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/opdserve/opdserve/internal/auth"
	"github.com/opdserve/opdserve/internal/config"
	"github.com/opdserve/opdserve/internal/database"
	"github.com/opdserve/opdserve/internal/database/settings"
	"github.com/opdserve/opdserve/internal/database/users"
	http_controllers "github.com/opdserve/opdserve/internal/http"
	"github.com/opdserve/opdserve/internal/locale"
	"github.com/opdserve/opdserve/internal/metrics"
	"github.com/opdserve/opdserve/internal/opds"
	"github.com/opdserve/opdserve/internal/storage"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting %s v%s", cfg.App.Name, version)

	// The libraries directory must exist up front; individual library
	// folders inside it are resolved per request.
	if info, err := os.Stat(cfg.Libraries.BasePath); err != nil || !info.IsDir() {
		log.Fatalf("Libraries directory %s does not exist", cfg.Libraries.BasePath)
	}
	log.Printf("Serving Calibre libraries from %s", cfg.Libraries.BasePath)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	settingsRepo := settings.NewRepository(db.DB)
	usersRepo := users.NewRepository(db.DB)

	libraries := storage.NewResolver(cfg.Libraries.BasePath)
	languages := locale.NewNamer(cfg.App.DisplayLocale)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Initialize authentication if enabled
	var authService *auth.Service
	var authMiddleware *auth.Middleware
	var authController *auth.Controller
	var sessionManager *auth.SessionManager
	var rateLimiter *auth.RateLimiter
	var csrfSecret []byte

	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Printf("Authentication mode: local")

		authService = auth.NewService(usersRepo, cfg.Auth)

		// Get underlying SQL DB for the session store
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}

		sessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}

		rateLimiter = auth.NewRateLimiter(auth.RateLimitConfig{
			MaxAttempts:     cfg.Auth.MaxLoginAttempts,
			WindowDuration:  cfg.Auth.RateLimitWindow,
			LockoutDuration: cfg.Auth.LockoutDuration,
		})

		authMiddleware = auth.NewMiddleware(authService, sessionManager, rateLimiter, cfg.Auth)
		authController = auth.NewController(authService, sessionManager, rateLimiter, cfg.App.Name)

		// Generate or use configured CSRF secret
		if cfg.Auth.SessionSecret != "" {
			csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
			if err != nil {
				// Not hex, use as raw bytes
				csrfSecret = []byte(cfg.Auth.SessionSecret)
			}
		} else {
			secret, err := auth.GenerateSessionSecret()
			if err != nil {
				log.Fatalf("Failed to generate CSRF secret: %v", err)
			}
			csrfSecret, _ = hex.DecodeString(secret)
			log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
		}

		hasUsers, _ := authService.HasUsers()
		if !hasUsers {
			log.Printf("No users found. Run '%s create-user' to create an account.", os.Args[0])
		}
	} else {
		log.Printf("Authentication mode: none (no authentication required)")
	}

	routerCfg := http_controllers.RouterConfig{
		App: opds.App{
			ID:      cfg.App.Name,
			Name:    cfg.App.Name,
			Version: version,
			Website: cfg.App.Website,
		},
		BaseURL:        cfg.HTTP.BaseURL,
		Database:       db,
		SettingsStore:  settingsRepo,
		Libraries:      libraries,
		Languages:      languages,
		AuthConfig:     cfg.Auth,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		AuthController: authController,
		SessionManager: sessionManager,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		Metrics:        collector,
		Registry:       registry,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if rateLimiter != nil {
			rateLimiter.Stop()
		}
	}

	Serve(router, cfg, onShutdown)
}
