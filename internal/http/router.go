package http

import (
	"github.com/gin-gonic/gin"

	"github.com/opdserve/opdserve/internal/auth"
	"github.com/opdserve/opdserve/internal/metrics"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// Authentication runs before every catalog handler so no library or
	// database work happens for unauthenticated requests.
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.DefaultUserID)
			c.Set(auth.ContextKeyAuthType, auth.AuthTypeNone)
			c.Next()
		})
	}

	if cfg.AuthController != nil {
		cfg.AuthController.RegisterRoutes(router)
	}

	routes := NewResolver(cfg.BaseURL)
	opdsController := NewOpdsController(cfg.App, routes, cfg.SettingsStore, cfg.Libraries, cfg.Languages, cfg.Metrics)
	opdsController.RegisterRoutes(router)

	settingsController := NewSettingsController(cfg.SettingsStore, cfg.Libraries)
	settingsController.RegisterRoutes(router)

	health := NewHealthController(cfg.Database, cfg.App.Version)
	router.GET("/health", health.Status)

	if cfg.Registry != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(cfg.Registry)))
	}

	return router
}
