package auth

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// loginTemplate is the minimal form served to browsers. OPDS readers
// authenticate with Basic credentials and never see this page.
var loginTemplate = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.AppName}} login</title></head>
<body style="font-family: system-ui; max-width: 360px; margin: 100px auto;">
<h1>{{.AppName}}</h1>
{{if .Error}}<p style="color: #b00;">{{.Error}}</p>{{end}}
<form method="post" action="/login">
<input type="hidden" name="next" value="{{.Next}}">
{{if .CSRFToken}}<input type="hidden" name="gorilla.csrf.Token" value="{{.CSRFToken}}">{{end}}
<p><input name="username" placeholder="Username" autofocus></p>
<p><input name="password" type="password" placeholder="Password"></p>
<p><button type="submit">Sign in</button></p>
</form>
</body>
</html>`))

// isLocalPath validates that a redirect path is local to prevent open
// redirect attacks.
func isLocalPath(path string) bool {
	if path == "" {
		return false
	}
	if !strings.HasPrefix(path, "/") {
		return false
	}
	// Protocol-relative URLs (//evil.com)
	if strings.HasPrefix(path, "//") {
		return false
	}
	if strings.Contains(path, "://") {
		return false
	}
	if strings.Contains(path, "\\") {
		return false
	}
	return true
}

// sanitizeRedirectPath returns a safe redirect path, defaulting to the
// catalog root if invalid.
func sanitizeRedirectPath(path string) string {
	if isLocalPath(path) {
		return path
	}
	return "/opds/"
}

// Controller handles login and logout endpoints.
type Controller struct {
	service        *Service
	sessionManager *SessionManager
	rateLimiter    *RateLimiter
	appName        string
}

// NewController creates a new authentication controller.
func NewController(service *Service, sessionManager *SessionManager, rateLimiter *RateLimiter, appName string) *Controller {
	return &Controller{
		service:        service,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
		appName:        appName,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ct *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/login", ct.LoginPage)
	router.POST("/login", ct.Login)
	router.POST("/logout", ct.Logout)
	router.GET("/logout", ct.Logout) // Support GET for simple logout links
}

// LoginPage renders the login form.
func (ct *Controller) LoginPage(c *gin.Context) {
	if ct.sessionManager != nil && ct.sessionManager.IsAuthenticated(c.Request) {
		c.Redirect(http.StatusFound, "/opds/")
		return
	}

	ct.renderLogin(c, http.StatusOK, sanitizeRedirectPath(c.Query("next")), "")
}

// Login validates submitted credentials and establishes a session.
func (ct *Controller) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	next := sanitizeRedirectPath(c.PostForm("next"))

	if username == "" || password == "" {
		ct.renderLogin(c, http.StatusBadRequest, next, "Username and password are required.")
		return
	}

	ip := c.ClientIP()
	if ct.rateLimiter != nil {
		if allowed, retryAfter := ct.rateLimiter.Allow(ip, username); !allowed {
			c.Header("Retry-After", retryAfter.String())
			ct.renderLogin(c, http.StatusTooManyRequests, next, "Too many attempts. Try again later.")
			return
		}
	}

	user, err := ct.service.Authenticate(username, password)
	if err != nil {
		if ct.rateLimiter != nil {
			ct.rateLimiter.RecordFailure(ip, username)
		}
		ct.renderLogin(c, http.StatusUnauthorized, next, "Invalid username or password.")
		return
	}

	if ct.rateLimiter != nil {
		ct.rateLimiter.RecordSuccess(ip, username)
	}

	if err := ct.sessionManager.CreateSession(c.Request, user); err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Redirect(http.StatusFound, next)
}

// Logout destroys the session and redirects to the login form.
func (ct *Controller) Logout(c *gin.Context) {
	if ct.sessionManager != nil {
		_ = ct.sessionManager.DestroySession(c.Request)
	}
	c.Redirect(http.StatusFound, "/login")
}

// Stop releases controller resources.
func (ct *Controller) Stop() {
	if ct.rateLimiter != nil {
		ct.rateLimiter.Stop()
	}
}

func (ct *Controller) renderLogin(c *gin.Context, status int, next, errMsg string) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	_ = loginTemplate.Execute(c.Writer, gin.H{
		"AppName":   ct.appName,
		"Next":      next,
		"Error":     errMsg,
		"CSRFToken": GetCSRFToken(c),
	})
}
