package config

import (
	"time"

	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone  AuthMode = "none"  // No authentication required (default)
	AuthModeLocal AuthMode = "local" // Local user database with Basic auth and sessions
)

type (
	Config struct {
		HTTP
		App
		Database
		Libraries
		Auth
		Global
	}

	HTTP struct {
		Port    int32
		Host    string
		BaseURL string // Public base URL used when building feed links
	}
	App struct {
		Name          string
		Version       string
		Website       string
		Icon          string // Feed icon URL, relative to BaseURL
		DisplayLocale string // Locale used for language facet names
	}
	Database struct {
		Path string
	}
	Libraries struct {
		BasePath string // Directory containing per-user Calibre library folders
	}
	Auth struct {
		Mode            AuthMode
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS

		// Rate limiting configuration
		MaxLoginAttempts int           // Max failed attempts before lockout (default: 5)
		RateLimitWindow  time.Duration // Time window for counting attempts (default: 15m)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8383)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("base_url", "http://localhost:8383")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("libraries_path", DefaultLibrariesPath)

	// App identity defaults (reported in feed metadata)
	v.SetDefault("app_name", AppName)
	v.SetDefault("app_version", AppVersion)
	v.SetDefault("app_website", AppWebsite)
	v.SetDefault("app_icon", "/favicon.ico")
	v.SetDefault("display_locale", "en")

	// Auth defaults
	v.SetDefault("auth_mode", "none")
	v.SetDefault("auth_session_secret", "")      // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h") // 24 hours
	v.SetDefault("auth_bcrypt_cost", 12)         // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", true)    // HTTPS-only cookies
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_rate_limit_window", "15m")
	v.SetDefault("auth_lockout_duration", "30m")

	return &Config{
		HTTP: HTTP{
			Port:    v.GetInt32("PORT"),
			Host:    v.GetString("HOST"),
			BaseURL: v.GetString("BASE_URL"),
		},
		App: App{
			Name:          v.GetString("APP_NAME"),
			Version:       v.GetString("APP_VERSION"),
			Website:       v.GetString("APP_WEBSITE"),
			Icon:          v.GetString("APP_ICON"),
			DisplayLocale: v.GetString("DISPLAY_LOCALE"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Libraries: Libraries{
			BasePath: v.GetString("LIBRARIES_PATH"),
		},
		Auth: Auth{
			Mode:             AuthMode(v.GetString("AUTH_MODE")),
			SessionSecret:    v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime:  v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
