package session

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by verifiers that reject a token
var ErrInvalidToken = errors.New("invalid session token")

// Verifier decides whether a present session token is acceptable to the gate
type Verifier interface {
	Verify(token string) error
}

// PresenceVerifier accepts any non-empty token. This is the default: the gate is
// advisory and the backend stays the authority on token validity.
type PresenceVerifier struct{}

func (PresenceVerifier) Verify(token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	return nil
}

// HMACVerifier checks the token signature and expiry with a shared secret
type HMACVerifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewHMACVerifier creates a verifier for HS256/384/512 tokens
func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
			jwt.WithExpirationRequired(),
		),
	}
}

func (v *HMACVerifier) Verify(token string) error {
	parsed, err := v.parser.Parse(token, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}

// NewVerifier returns the HMAC verifier when a secret is configured and the
// presence-only verifier otherwise
func NewVerifier(secret string) Verifier {
	if secret == "" {
		return PresenceVerifier{}
	}
	return NewHMACVerifier(secret)
}
