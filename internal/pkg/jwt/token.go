// Package jwt inspects access tokens issued by the external identity
// provider. The client never validates signatures - that is the issuer's job
// - it only reads the subject and expiry so the session can refuse to dial
// with a dead credential.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	// ErrTokenExpired is returned when the credential's expiry has passed
	ErrTokenExpired = errors.New("access token expired")
	// ErrNoSubject is returned when the token carries no subject claim
	ErrNoSubject = errors.New("access token has no subject")
)

// Credential is the identity material extracted from an access token.
type Credential struct {
	SubjectID string
	ExpiresAt time.Time
	Token     string
}

// ParseCredential extracts the subject and expiry from an externally issued
// access token without verifying its signature.
func ParseCredential(tokenString string) (*Credential, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return nil, ErrNoSubject
	}

	cred := &Credential{
		SubjectID: subject,
		Token:     tokenString,
	}

	if exp, ok := claims["exp"].(float64); ok {
		cred.ExpiresAt = time.Unix(int64(exp), 0)
	}

	return cred, nil
}

// Valid reports whether the credential is usable at the given time. Tokens
// without an expiry claim are treated as non-expiring.
func (c *Credential) Valid(now time.Time) error {
	if !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt) {
		return ErrTokenExpired
	}
	return nil
}
