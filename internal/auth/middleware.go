package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opdserve/opdserve/internal/config"
	"github.com/opdserve/opdserve/internal/entities"
)

// Context keys for user data
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyUsername = "auth_username"
	ContextKeyAuthType = "auth_type"
)

// AuthType indicates how the user was authenticated
type AuthType string

const (
	AuthTypeNone    AuthType = "none"
	AuthTypeSession AuthType = "session"
	AuthTypeBasic   AuthType = "basic"
)

// BasicRealm is the realm announced in WWW-Authenticate challenges.
const BasicRealm = `Basic realm="opdserve", charset="UTF-8"`

// DefaultUserID is used when authentication is disabled
const DefaultUserID = uint(0)

// Middleware handles authentication for HTTP requests.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
	rateLimiter    *RateLimiter
	config         config.Auth
	publicPaths    map[string]bool
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service, sessionManager *SessionManager, rateLimiter *RateLimiter, cfg config.Auth) *Middleware {
	publicPaths := map[string]bool{
		"/health":      true,
		"/metrics":     true,
		"/login":       true,
		"/logout":      true,
		"/favicon.ico": true,
	}

	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
		config:         cfg,
		publicPaths:    publicPaths,
	}
}

// Handler returns a Gin middleware handler that authenticates requests.
// Authentication happens before any catalog or library access.
func (m *Middleware) Handler() gin.HandlerFunc {
	if m.config.Mode == config.AuthModeNone {
		return m.noAuthHandler()
	}

	return m.authHandler()
}

// noAuthHandler injects DefaultUserID for all requests when auth is disabled.
func (m *Middleware) noAuthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyUserID, DefaultUserID)
		c.Set(ContextKeyAuthType, AuthTypeNone)
		c.Next()
	}
}

// authHandler handles authentication when auth is enabled.
func (m *Middleware) authHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.publicPaths[c.Request.URL.Path] {
			c.Set(ContextKeyUserID, DefaultUserID)
			c.Set(ContextKeyAuthType, AuthTypeNone)
			c.Next()
			return
		}

		// Basic credentials first: the scheme OPDS clients speak.
		if user, tried := m.tryBasicAuth(c); user != nil {
			m.setUserContext(c, user, AuthTypeBasic)
			c.Next()
			return
		} else if tried {
			// Credentials were presented but rejected.
			m.challenge(c)
			return
		}

		if user := m.trySessionAuth(c); user != nil {
			m.setUserContext(c, user, AuthTypeSession)
			c.Next()
			return
		}

		// Browsers get the login form, everything else gets a challenge.
		if m.isBrowserRequest(c) {
			c.Redirect(http.StatusFound, "/login?next="+c.Request.URL.Path)
			c.Abort()
			return
		}
		m.challenge(c)
	}
}

// challenge aborts the request with a 401 Basic challenge.
func (m *Middleware) challenge(c *gin.Context) {
	c.Header("WWW-Authenticate", BasicRealm)
	c.AbortWithStatus(http.StatusUnauthorized)
}

// tryBasicAuth attempts to authenticate using HTTP Basic credentials.
// The second return value reports whether credentials were presented.
func (m *Middleware) tryBasicAuth(c *gin.Context) (*entities.User, bool) {
	username, password, ok := c.Request.BasicAuth()
	if !ok {
		return nil, false
	}

	ip := c.ClientIP()
	if m.rateLimiter != nil {
		if allowed, retryAfter := m.rateLimiter.Allow(ip, username); !allowed {
			c.Header("Retry-After", retryAfter.String())
			return nil, true
		}
	}

	user, err := m.service.Authenticate(username, password)
	if err != nil {
		if m.rateLimiter != nil {
			m.rateLimiter.RecordFailure(ip, username)
		}
		return nil, true
	}

	if m.rateLimiter != nil {
		m.rateLimiter.RecordSuccess(ip, username)
	}
	return user, true
}

// trySessionAuth attempts to authenticate using the session cookie.
func (m *Middleware) trySessionAuth(c *gin.Context) *entities.User {
	if m.sessionManager == nil {
		return nil
	}

	userID := m.sessionManager.GetUserID(c.Request)
	if userID == 0 {
		return nil
	}

	user, err := m.service.GetUserByID(userID)
	if err != nil {
		return nil
	}

	return user
}

// setUserContext stores user information in the Gin context.
func (m *Middleware) setUserContext(c *gin.Context, user *entities.User, authType AuthType) {
	c.Set(ContextKeyUserID, user.ID)
	c.Set(ContextKeyUsername, user.Username)
	c.Set(ContextKeyAuthType, authType)
}

// isBrowserRequest reports whether the client looks like a web browser
// rather than an OPDS reader or API client.
func (m *Middleware) isBrowserRequest(c *gin.Context) bool {
	if c.GetHeader("Authorization") != "" {
		return false
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "text/html")
}

// Helper functions to extract auth data from Gin context

// GetUserID retrieves the authenticated user's ID from the context.
// Returns DefaultUserID (0) if not authenticated or auth is disabled.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return DefaultUserID
}

// GetUsername retrieves the authenticated user's username from the context.
func GetUsername(c *gin.Context) string {
	if name, exists := c.Get(ContextKeyUsername); exists {
		if username, ok := name.(string); ok {
			return username
		}
	}
	return ""
}

// GetAuthType retrieves the authentication method used.
func GetAuthType(c *gin.Context) AuthType {
	if t, exists := c.Get(ContextKeyAuthType); exists {
		if authType, ok := t.(AuthType); ok {
			return authType
		}
	}
	return AuthTypeNone
}
