package middleware

import (
	"Backend-Plotter/internal/app/ds"

	"github.com/gin-gonic/gin"
)

const (
	sessionIDKey = "session_id"
	tokenKey     = "session_token"
	claimsKey    = "session_claims"
)

// GetSessionID возвращает ID сессии из контекста
func GetSessionID(c *gin.Context) (string, bool) {
	sessionID, exists := c.Get(sessionIDKey)
	if !exists {
		return "", false
	}
	return sessionID.(string), true
}

// GetToken возвращает токен сессии из контекста
func GetToken(c *gin.Context) (string, bool) {
	token, exists := c.Get(tokenKey)
	if !exists {
		return "", false
	}
	return token.(string), true
}

// GetClaims возвращает утверждения токена сессии
func GetClaims(c *gin.Context) (*ds.SessionClaims, bool) {
	claims, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	return claims.(*ds.SessionClaims), true
}
