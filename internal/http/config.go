package http

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/opdserve/opdserve/internal/auth"
	"github.com/opdserve/opdserve/internal/config"
	"github.com/opdserve/opdserve/internal/database"
	"github.com/opdserve/opdserve/internal/database/settings"
	"github.com/opdserve/opdserve/internal/locale"
	"github.com/opdserve/opdserve/internal/metrics"
	"github.com/opdserve/opdserve/internal/opds"
	"github.com/opdserve/opdserve/internal/storage"
)

// RouterConfig contains all dependencies and configuration needed to
// create the HTTP router.
type RouterConfig struct {
	// Application identity written into feed metadata
	App opds.App

	// Public base URL for feed links
	BaseURL string

	// Application database (users, settings)
	Database      *database.Database
	SettingsStore *settings.Repository

	// Library filesystem access and language display names
	Libraries *storage.Resolver
	Languages *locale.Namer

	// Authentication (nil when auth mode is none)
	AuthConfig     config.Auth
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	AuthController *auth.Controller
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
	SecureCookies  bool

	// Metrics
	Metrics  *metrics.Collector
	Registry prometheus.Gatherer
}
