// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the query normalizer. The frontend serializes arrays
// and objects into the query string (repeated keys, "tags[]=a", "f[k]=v");
// handlers only ever want scalar filters, so NormalizeQuery reduces the raw
// query to a flat map of single, non-empty string values and stores it on
// the request context. Handlers read it back with QueryFrom.
package middleware

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxKeyQuery = "query.normalized"

// NormalizeQuery stores the sanitized query dictionary for the request.
// It never rejects a request.
func NormalizeQuery() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxKeyQuery, normalizeValues(c.Request.URL.Query()))
		c.Next()
	}
}

// QueryFrom returns the dictionary stored by NormalizeQuery, or nil when the
// middleware did not run for this request.
func QueryFrom(c *gin.Context) map[string]string {
	v, ok := c.Get(ctxKeyQuery)
	if !ok {
		return nil
	}
	m, _ := v.(map[string]string)
	return m
}

// normalizeValues keeps keys that carry exactly one non-empty value and are
// not bracket-notation sequence or object keys.
func normalizeValues(raw url.Values) map[string]string {
	out := make(map[string]string, len(raw))
	for k, vals := range raw {
		if k == "" || strings.ContainsAny(k, "[]") {
			continue
		}
		if len(vals) != 1 || vals[0] == "" {
			continue
		}
		out[k] = vals[0]
	}
	return out
}
