package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer mints Ghost admin tokens for a single admin key
type Signer struct {
	key      AdminKey
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// Option configures a Signer
type Option func(*Signer)

// WithAudience overrides the aud claim. An empty audience omits the claim.
func WithAudience(audience string) Option {
	return func(s *Signer) {
		s.audience = audience
	}
}

// WithTTL overrides the token lifetime
func WithTTL(ttl time.Duration) Option {
	return func(s *Signer) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source used for iat/exp
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSigner creates a Signer for the given admin key
func NewSigner(key AdminKey, opts ...Option) *Signer {
	s := &Signer{
		key:      key,
		audience: DefaultAudience,
		ttl:      DefaultTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// KeyID returns the key id placed in the token header
func (s *Signer) KeyID() string {
	return s.key.ID
}

// Claims returns the admin claim set for the current instant
func (s *Signer) Claims() jwt.MapClaims {
	iat := s.now().Unix()
	claims := jwt.MapClaims{
		"iat": iat,
		"exp": iat + int64(s.ttl/time.Second),
	}
	if s.audience != "" {
		claims["aud"] = s.audience
	}
	return claims
}

// Token mints a new admin token
func (s *Signer) Token() (string, error) {
	return Sign(s.key.ID, s.key.Secret, s.Claims())
}
