package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHTTPMetricsUsesRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()

	r := gin.New()
	r.Use(HTTPMetricsMiddleware(reg))
	r.GET("/api/:provider/connection", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/youtube/connection", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	expected := `
# HELP socialbridge_http_requests_total Total number of HTTP requests processed.
# TYPE socialbridge_http_requests_total counter
socialbridge_http_requests_total{method="GET",route="/api/:provider/connection",status="200"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "socialbridge_http_requests_total"))
}

func TestHTTPMetricsUnknownRoute(t *testing.T) {
	reg := prometheus.NewRegistry()

	r := gin.New()
	r.Use(HTTPMetricsMiddleware(reg))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope/123", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	expected := `
# HELP socialbridge_http_requests_total Total number of HTTP requests processed.
# TYPE socialbridge_http_requests_total counter
socialbridge_http_requests_total{method="GET",route="unknown",status="404"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "socialbridge_http_requests_total"))
}

func TestHTTPMetricsNilRegistry(t *testing.T) {
	r := gin.New()
	r.Use(HTTPMetricsMiddleware(nil))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandlerExposesRegistry(t *testing.T) {
	reg := NewRegistry()
	r := gin.New()
	r.GET("/metrics", Handler(reg))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
