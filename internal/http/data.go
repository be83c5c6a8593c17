package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opdserve/opdserve/internal/calibre"
	"github.com/opdserve/opdserve/internal/utils"
)

// BookData streams one format file of a book.
func (ct *OpdsController) BookData(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	formatType := c.Param("type")

	db, root, err := ct.openLibrary(c)
	if err != nil {
		respondError(c, "book_data", err)
		return
	}
	defer db.Close()

	format, err := calibre.FormatByBookAndType(db, id, formatType)
	if err != nil {
		respondError(c, "book_data", err)
		return
	}
	if format == nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	data, err := ct.libraries.OpenFormat(root, format.Path, format.Filename())
	if err != nil {
		respondError(c, "book_data", err)
		return
	}
	defer data.Close()

	if ct.metrics != nil {
		ct.metrics.RecordDownload(format.Format)
	}

	c.Header("Content-Type", utils.MimeType(formatType))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, data)
}
