package ds

import (
	"time"

	"github.com/golang-jwt/jwt"
)

// SessionClaims утверждения токена сессии. Токен идентифицирует сессию, а не пользователя.
type SessionClaims struct {
	jwt.StandardClaims
	SessionID string `json:"session_id"`
}

type SessionTokenResponse struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}
