// Package http is the gin boundary of the catalog: routing, controllers,
// and error classification. Handlers translate catalog results into the
// three externally visible failure classes: not found, unauthenticated,
// and generic server error.
package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opdserve/opdserve/internal/calibre"
)

// respondError classifies a handler failure. Missing resources map to
// 404, everything else is a logged 500.
func respondError(c *gin.Context, handler string, err error) {
	if errors.Is(err, calibre.ErrNotFound) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	log.Printf("error in %s: %v", handler, err)
	c.AbortWithStatus(http.StatusInternalServerError)
}

// prefixOf returns the first n characters of s. SQLite's substr counts
// characters, not bytes, so this must too.
func prefixOf(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
