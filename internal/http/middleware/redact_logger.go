// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, the structured request logger. Catalog
// traffic carries identifiers that must not end up in logs verbatim: tenant
// and source UUIDs in query strings, producer contact data smuggled into
// custom headers, and idempotency keys that often embed upstream batch names.
// The logger scrubs those before emitting a line and never logs request or
// response bodies.
//
// Usage:
//
//	r := gin.New()
//	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
//	    MaskHeaders: []string{"X-Admin-Token"},
//	}))
package middleware

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/atlasfeed/go-catalog-backend/internal/sysutil"
)

// RedactOptions configures extra scrub behavior for RedactingLogger.
//
// MaskHeaders names additional headers whose values are replaced with
// "[REDACTED]" wholesale. Matching is case-insensitive and merged with the
// built-in set (Authorization, Cookie, Set-Cookie, Idempotency-Key).
type RedactOptions struct {
	MaskHeaders []string
}

var (
	scrubUUIDRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	scrubEmailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	// Digits-only so the pattern cannot eat the hex segments of a UUID.
	scrubPhoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

// scrub substitutes identifier-shaped substrings. UUIDs go first so the
// looser phone pattern never sees their digit runs.
func scrub(s string) string {
	if s == "" {
		return s
	}
	out := scrubUUIDRE.ReplaceAllString(s, "[REDACTED:id]")
	out = scrubEmailRE.ReplaceAllString(out, "[REDACTED:email]")
	out = scrubPhoneRE.ReplaceAllString(out, "[REDACTED:phone]")
	return out
}

// RedactingLogger returns a Gin middleware that logs one structured line per
// request: method, route path, scrubbed query, status, response size, latency,
// and scrubbed headers. Level is INFO, WARN for 4xx, ERROR for 5xx. The
// request id is taken from the response header set by RequestID, falling back
// to the inbound header.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	maskHeaders := map[string]struct{}{
		"authorization":   {},
		"cookie":          {},
		"set-cookie":      {},
		"idempotency-key": {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			maskHeaders[h] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		safeQuery := scrub(c.Request.URL.RawQuery)

		safeHeaders := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			val := strings.Join(vv, ", ")
			if _, masked := maskHeaders[strings.ToLower(k)]; masked {
				safeHeaders[k] = "[REDACTED]"
				continue
			}
			safeHeaders[k] = scrub(val)
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		reqID := sysutil.FirstNonEmpty(
			c.Writer.Header().Get("X-Request-ID"),
			c.GetHeader("X-Request-ID"),
		)

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}

		ev.
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", safeQuery).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", latency).
			Interface("headers", safeHeaders).
			Msg("http_request")
	}
}
