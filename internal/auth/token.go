// Package auth issues and validates the signed session tokens used by the
// API. Tokens are stateless: logout is client-local, there is no revocation
// list.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/coffeebase/coffeebase-api/internal/apperr"
)

// Claims is the verified content of a session token.
type Claims struct {
	UserID string
	Role   string
}

type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

func (t *Tokens) Generate(userID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  now.Add(t.ttl).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", apperr.Wrap(apperr.KindDependency, "could not sign token", err)
	}
	return signed, nil
}

// Validate checks signature and expiry. Any failure, including an unexpected
// signing method, surfaces as an authentication error.
func (t *Tokens) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.New(apperr.KindAuthentication, "unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindAuthentication, "Invalid or expired token", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperr.New(apperr.KindAuthentication, "Invalid or expired token")
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return nil, apperr.New(apperr.KindAuthentication, "Invalid or expired token")
	}
	return &Claims{UserID: sub, Role: role}, nil
}
