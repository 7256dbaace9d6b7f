package utils

import (
	"errors"
	"time"

	"Backend-Plotter/internal/app/ds"

	"github.com/golang-jwt/jwt"
)

const sessionIssuer = "timeseries-plotter"

// GenerateSessionToken выпускает токен, по которому клиент обращается к своей сессии
func GenerateSessionToken(sessionID, secret string, expiresIn time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(expiresIn)

	claims := ds.SessionClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expiresAt.Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    sessionIssuer,
			Subject:   sessionID,
		},
		SessionID: sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func ValidateToken(tokenString string, secret string) (*ds.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ds.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*ds.SessionClaims); ok && token.Valid && claims.SessionID != "" {
		return claims, nil
	}

	return nil, jwt.ErrInvalidKey
}

// TokenTTL возвращает оставшееся время жизни токена
func TokenTTL(claims *ds.SessionClaims) time.Duration {
	return time.Until(time.Unix(claims.ExpiresAt, 0))
}
