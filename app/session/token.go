package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The client-side token is a signed JWT carrying nothing but the session ID
// and an expiry. All identity and role data stays in the server-side store.
type tokenClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func signToken(secret []byte, sessionID string, expiresAt time.Time) (string, error) {
	claims := tokenClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "maplewood-records",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseToken(secret []byte, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return "", jwt.ErrInvalidKey
	}
	return claims.SessionID, nil
}
