package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRedactingLogger_ScrubsIdentifiers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	buf := captureLogger(t)

	// Upstream RequestID would normally set this response header.
	r.Use(func(c *gin.Context) {
		c.Header("X-Request-ID", "rid-resp")
		c.Next()
	})
	r.Use(RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Admin-Token"}}))

	r.GET("/sources/:id", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	// Query carrying a tenant UUID plus producer contact data.
	q := "tenant_id=123e4567-e89b-12d3-a456-426614174000&contact=a.b%2Btag@example.com&phone=%2B1-555-123-4567"
	req := httptest.NewRequest(http.MethodGet, "/sources/abc?"+q, nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("Cookie", "sid=topsecret")
	req.Header.Set("Idempotency-Key", "batch-2026-03-15-0042")
	req.Header.Set("X-Admin-Token", "shhh")
	req.Header.Set("X-Upstream-Ref", "owner a@b.com id=123e4567-e89b-12d3-a456-426614174000")
	req.Header.Set("X-Request-ID", "rid-req")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	logs := buf.String()
	if !strings.Contains(logs, `"level":"info"`) {
		t.Fatalf("expected info log, got: %s", logs)
	}
	if !strings.Contains(logs, `"path":"/sources/:id"`) {
		t.Fatalf("expected route pattern as path, got: %s", logs)
	}
	// Response header wins over the inbound one.
	if !strings.Contains(logs, `"request_id":"rid-resp"`) {
		t.Fatalf("expected request_id from response header, got: %s", logs)
	}
	for _, marker := range []string{"[REDACTED:id]", "[REDACTED:email]", "[REDACTED:phone]"} {
		if !strings.Contains(logs, marker) {
			t.Fatalf("expected %s in query scrub, got: %s", marker, logs)
		}
	}
	for _, hdr := range []string{"Authorization", "Cookie", "Idempotency-Key", "X-Admin-Token"} {
		if !strings.Contains(logs, `"`+hdr+`":"[REDACTED]"`) {
			t.Fatalf("%s must be fully masked: %s", hdr, logs)
		}
	}
	if !strings.Contains(logs, `"X-Upstream-Ref":"owner [REDACTED:email] id=[REDACTED:id]"`) {
		t.Fatalf("expected pattern scrub inside unmasked header, got: %s", logs)
	}
}

func TestRedactingLogger_LevelsAndRequestIDFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	buf := captureLogger(t)
	r.Use(RedactingLogger(RedactOptions{}))

	r.GET("/warn", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/error", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	// Only the inbound header is set, so the logger must fall back to it.
	reqWarn := httptest.NewRequest(http.MethodGet, "/warn", nil)
	reqWarn.Header.Set("X-Request-ID", "rid-warn")
	r.ServeHTTP(httptest.NewRecorder(), reqWarn)

	reqErr := httptest.NewRequest(http.MethodGet, "/error", nil)
	reqErr.Header.Set("X-Request-ID", "rid-err")
	r.ServeHTTP(httptest.NewRecorder(), reqErr)

	logs := buf.String()
	if !strings.Contains(logs, `"level":"warn"`) || !strings.Contains(logs, `"request_id":"rid-warn"`) {
		t.Fatalf("warn log missing or no request_id fallback: %s", logs)
	}
	if !strings.Contains(logs, `"level":"error"`) || !strings.Contains(logs, `"request_id":"rid-err"`) {
		t.Fatalf("error log missing or no request_id fallback: %s", logs)
	}
}
