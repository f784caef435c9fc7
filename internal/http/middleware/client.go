// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file identifies the calling client. The job board has no user
// accounts; browsers send an opaque, stable X-Client-ID that scopes
// idempotency keys and rate-limit buckets. Missing or malformed values fall
// back to AnonymousClient.
package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderClientID carries the caller's opaque client identifier.
	HeaderClientID = "X-Client-ID"
	// AnonymousClient is used when no valid client id was supplied.
	AnonymousClient = "anonymous"

	ctxKeyClientID = "clientID"
	maxClientIDLen = 128
)

var clientIDRE = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// ClientID stores the validated X-Client-ID under the "clientID" context key.
func ClientID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(HeaderClientID); id != "" && len(id) <= maxClientIDLen && clientIDRE.MatchString(id) {
			c.Set(ctxKeyClientID, id)
		}
		c.Next()
	}
}

// ClientIDFrom returns the client id for the request or AnonymousClient.
func ClientIDFrom(c *gin.Context) string {
	if s := c.GetString(ctxKeyClientID); s != "" {
		return s
	}
	return AnonymousClient
}
