package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
)

// StaticTokenVerifier accepts exactly one shared secret. It stands in for the
// identity provider on admin routes when the deployment has no SSO in front.
type StaticTokenVerifier struct {
	token string
}

// NewStaticTokenVerifier returns a verifier bound to the given secret.
func NewStaticTokenVerifier(token string) (*StaticTokenVerifier, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("admin token is required")
	}
	return &StaticTokenVerifier{token: token}, nil
}

// Verify compares the presented token in constant time.
func (v *StaticTokenVerifier) Verify(_ context.Context, token string) (bool, error) {
	if v == nil {
		return false, errors.New("verifier not configured")
	}
	return subtle.ConstantTimeCompare([]byte(v.token), []byte(token)) == 1, nil
}
