package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest("/opds/", 200, 5*time.Millisecond)
	c.RecordRequest("/opds/", 200, 3*time.Millisecond)
	c.RecordRequest("/opds/books/:criterion/:id", 404, time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(
		c.requests.WithLabelValues("/opds/", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		c.requests.WithLabelValues("/opds/books/:criterion/:id", "404")))
}

func TestCollector_RecordDownload(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordDownload("EPUB")
	c.RecordDownload("EPUB")
	c.RecordDownload("PDF")

	assert.Equal(t, float64(2), testutil.ToFloat64(c.downloads.WithLabelValues("EPUB")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.downloads.WithLabelValues("PDF")))
}

func TestCollector_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	router := gin.New()
	router.Use(c.Middleware())
	router.GET("/opds/authors/:prefix", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/opds/authors/A", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, float64(1), testutil.ToFloat64(
		c.requests.WithLabelValues("/opds/authors/:prefix", "200")))
}

func TestHandler_Serves(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordRequest("/opds/", 200, time.Millisecond)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	Handler(reg).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "opdserve_requests_total")
}
