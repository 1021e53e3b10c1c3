package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountersAndPathFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())

	// Writes a body, so the size histogram records it.
	r.GET("/visibility", func(c *gin.Context) {
		c.String(http.StatusOK, `{"visible":true}`)
	})
	// Status only: size stays -1 and is skipped.
	r.GET("/assign", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	// Baselines guard against other tests touching the shared collectors.
	baseOK := testutil.ToFloat64(reqTotal.WithLabelValues("GET", "/visibility", "200"))
	base404 := testutil.ToFloat64(reqTotal.WithLabelValues("GET", "/does-not-exist", "404"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/visibility", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /visibility -> %d", w.Code)
	}

	// Unmatched route: the path label falls back to the raw URL.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/does-not-exist", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /does-not-exist -> %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assign", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("GET /assign -> %d", w.Code)
	}

	if got := testutil.ToFloat64(reqTotal.WithLabelValues("GET", "/visibility", "200")); got != baseOK+1 {
		t.Fatalf("counter /visibility 200 = %v; want %v", got, baseOK+1)
	}
	if got := testutil.ToFloat64(reqTotal.WithLabelValues("GET", "/does-not-exist", "404")); got != base404+1 {
		t.Fatalf("counter 404 fallback = %v; want %v", got, base404+1)
	}
	if inFlight := testutil.ToFloat64(reqInFlight); inFlight != 0 {
		t.Fatalf("reqInFlight = %v; want 0", inFlight)
	}
}
