package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opdserve/opdserve/internal/calibre"
	"github.com/opdserve/opdserve/internal/utils"
)

// BookCover streams a book's cover image.
func (ct *OpdsController) BookCover(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	db, root, err := ct.openLibrary(c)
	if err != nil {
		respondError(c, "book_cover", err)
		return
	}
	defer db.Close()

	book, err := calibre.BookByID(db, id)
	if err != nil {
		respondError(c, "book_cover", err)
		return
	}
	if book == nil || !book.HasCover {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	cover, err := ct.libraries.OpenCover(root, book.Path)
	if err != nil {
		respondError(c, "book_cover", err)
		return
	}
	defer cover.Close()

	c.Header("Content-Type", utils.MimeType("jpg"))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, cover)
}
