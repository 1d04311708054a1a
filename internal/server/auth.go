package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Credentials holds the administrative login material. The password is never
// stored: only the hex SHA-256 of salt+password is configured, and both
// comparisons are constant-time.
type Credentials struct {
	User         string
	Salt         string
	PasswordHash string
}

// Configured reports whether all credential material is present. Leaving any
// part unset blocks the administrative surface entirely rather than leaving
// it open.
func (c Credentials) Configured() bool {
	return c.User != "" && c.Salt != "" && c.PasswordHash != ""
}

// Check verifies a user/password pair against the configured material.
func (c Credentials) Check(user, password string) bool {
	if !c.Configured() {
		return false
	}
	sum := sha256.Sum256([]byte(c.Salt + password))
	okUser := hmac.Equal([]byte(user), []byte(c.User))
	okPass := hmac.Equal([]byte(hex.EncodeToString(sum[:])), []byte(c.PasswordHash))
	return okUser && okPass
}

// sessionKey is the gin context key holding the authenticated session.
const sessionKey = "session"

// Session identifies the authenticated operator for the duration of one
// administrative request.
type Session struct {
	User string
}

// RequireCredentials gates the administrative routes on HTTP basic
// authentication and places the resulting session on the request context.
// The ingestion pipeline has no dependency on any of this.
func RequireCredentials(creds Credentials) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, password, ok := c.Request.BasicAuth()
		if !ok || !creds.Check(user, password) {
			c.Header("WWW-Authenticate", `Basic realm="gastos admin"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"erro": "credenciais invalidas"})
			return
		}
		c.Set(sessionKey, Session{User: user})
		c.Next()
	}
}

// CurrentSession returns the session injected by RequireCredentials.
func CurrentSession(c *gin.Context) (Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return Session{}, false
	}
	session, ok := v.(Session)
	return session, ok
}
