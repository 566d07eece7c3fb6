package middleware

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const defaultJWTSecret = "moodtrack-secret-change-me"

var jwtSecret = []byte(defaultJWTSecret)

// SetJWTSecret configures the HS256 signing secret. Called once on startup.
func SetJWTSecret(s string) {
	if s != "" {
		jwtSecret = []byte(s)
	}
}

// TokenClaims is the payload of a user bearer token.
type TokenClaims struct {
	UserID string `json:"uid"`
	jwtlib.RegisteredClaims
}

// SignUserToken mints a bearer token for a user. The service has no
// token-issuing endpoint; operators mint tokens with cmd/mktoken (or insert
// an api_tokens row).
func SignUserToken(userID string, ttl time.Duration) (string, error) {
	claims := TokenClaims{
		UserID: userID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func parseUserToken(tokenStr string) (*TokenClaims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &TokenClaims{}, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
