// Package auth decides whether a caller may use admin operations.
package auth

import (
	"context"
	"crypto/subtle"
)

// Verifier checks an admin credential. Implementations must not leak timing
// information about the expected value.
type Verifier interface {
	Verify(ctx context.Context, credential string) bool
}

var _ Verifier = StaticSecret{}

// StaticSecret accepts exactly one shared secret.
type StaticSecret struct {
	secret []byte
}

func NewStaticSecret(secret string) StaticSecret {
	return StaticSecret{secret: []byte(secret)}
}

func (s StaticSecret) Verify(_ context.Context, credential string) bool {
	if len(s.secret) == 0 || credential == "" {
		return false
	}
	return subtle.ConstantTimeCompare(s.secret, []byte(credential)) == 1
}
