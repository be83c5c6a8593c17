package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opdserve/opdserve/internal/auth"
	"github.com/opdserve/opdserve/internal/calibre"
	"github.com/opdserve/opdserve/internal/database/settings"
	"github.com/opdserve/opdserve/internal/storage"
)

// SettingsController manages the per-user library configuration.
type SettingsController struct {
	settings  *settings.Repository
	libraries *storage.Resolver
}

// NewSettingsController creates the settings controller.
func NewSettingsController(settingsRepo *settings.Repository, libraries *storage.Resolver) *SettingsController {
	return &SettingsController{
		settings:  settingsRepo,
		libraries: libraries,
	}
}

// RegisterRoutes registers the settings endpoints on the router.
func (sc *SettingsController) RegisterRoutes(router *gin.Engine) {
	router.GET("/settings/library", sc.GetLibrary)
	router.PUT("/settings/library", sc.SetLibrary)
}

type librarySetting struct {
	Library string `json:"library"`
}

// GetLibrary returns the requesting user's configured library path.
func (sc *SettingsController) GetLibrary(c *gin.Context) {
	library, err := sc.settings.GetLibrary(auth.GetUserID(c))
	if err != nil {
		respondError(c, "get_library", err)
		return
	}
	c.JSON(http.StatusOK, librarySetting{Library: library})
}

// SetLibrary updates the requesting user's library path. The path must
// resolve to a directory containing a Calibre metadata database.
func (sc *SettingsController) SetLibrary(c *gin.Context) {
	var body librarySetting
	if err := c.ShouldBindJSON(&body); err != nil || body.Library == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "library is required"})
		return
	}

	root, err := sc.libraries.LibraryRoot(body.Library)
	if err == nil {
		_, err = sc.libraries.MetadataPath(root)
	}
	if err != nil {
		if errors.Is(err, calibre.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "not a Calibre library"})
			return
		}
		respondError(c, "set_library", err)
		return
	}

	if err := sc.settings.SetLibrary(auth.GetUserID(c), body.Library); err != nil {
		respondError(c, "set_library", err)
		return
	}
	c.JSON(http.StatusOK, librarySetting{Library: body.Library})
}
