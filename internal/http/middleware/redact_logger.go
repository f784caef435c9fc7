// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, an access logger for traffic that
// may carry candidate PII (application submissions, search queries typed by
// job seekers). Bodies are never logged. Query strings and header values are
// scrubbed of emails, phone numbers, and UUIDs, and credential headers are
// masked entirely.
package middleware

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RedactOptions adds headers to mask on top of the built-in set
// (Authorization, Cookie, Set-Cookie, X-Admin-Token). Matching is
// case-insensitive.
type RedactOptions struct {
	MaskHeaders []string
}

// UUIDs are scrubbed before phone numbers so the digit groups of an id are
// not mistaken for a phone.
var (
	redactUUIDRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`)
	redactEmailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	redactPhoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
	// Encoded '@' in query strings ("ada%40example.com").
	redactEncodedEmailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+%40[a-z0-9.\-]+\.[a-z]{2,}\b`)
)

type redactor struct {
	mask map[string]struct{}
}

func newRedactor(extra []string) redactor {
	m := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
		"x-admin-token": {},
	}
	for _, h := range extra {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			m[h] = struct{}{}
		}
	}
	return redactor{mask: m}
}

// text scrubs identifiers from s.
func (redactor) text(s string) string {
	if s == "" {
		return s
	}
	s = redactUUIDRE.ReplaceAllString(s, "[REDACTED:id]")
	s = redactEncodedEmailRE.ReplaceAllString(s, "[REDACTED:email]")
	s = redactEmailRE.ReplaceAllString(s, "[REDACTED:email]")
	return redactPhoneRE.ReplaceAllString(s, "[REDACTED:phone]")
}

// headers flattens h, masking credential headers and scrubbing the rest.
func (r redactor) headers(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vv := range h {
		if _, ok := r.mask[strings.ToLower(k)]; ok {
			out[k] = "[REDACTED]"
			continue
		}
		out[k] = r.text(strings.Join(vv, ", "))
	}
	return out
}

// RedactingLogger logs one scrubbed "http_request" line per request, at
// warn for 4xx and error for 5xx.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	red := newRedactor(opts.MaskHeaders)

	return func(c *gin.Context) {
		start := time.Now()
		query := red.text(c.Request.URL.RawQuery)
		hdrs := red.headers(c.Request.Header)

		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		}

		rid := c.Writer.Header().Get(requestIDHeader)
		if rid == "" {
			rid = c.GetHeader(requestIDHeader)
		}
		ev.Str("request_id", rid).
			Str("method", c.Request.Method).
			Str("path", routeOf(c)).
			Str("query", query).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", hdrs).
			Msg("http_request")
	}
}
