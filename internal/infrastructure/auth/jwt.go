// Package auth verifies bearer credentials on mutating endpoints. Token
// issuance is someone else's job; only HS256 verification lives here.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify parses and validates an HS256-signed token. The accepted algorithm is
// pinned so a token claiming a different method is rejected outright.
func (v *JWTVerifier) Verify(token string) error {
	_, err := jwt.Parse(
		token,
		func(t *jwt.Token) (any, error) {
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return fmt.Errorf("token verification failed: %w", err)
	}
	return nil
}
