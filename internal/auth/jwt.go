package auth

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultAudience is the audience Ghost expects on admin tokens
	DefaultAudience = "/admin/"

	// DefaultTTL is how long an admin token stays valid
	DefaultTTL = 5 * time.Minute
)

var (
	// ErrInvalidKeyFormat is returned when the key id or hex secret is missing or malformed
	ErrInvalidKeyFormat = errors.New("invalid admin key format")

	// ErrSerialization is returned when the header or claims cannot be encoded
	ErrSerialization = errors.New("token serialization failed")
)

// AdminKey is a Ghost admin API key split into its two halves
type AdminKey struct {
	ID     string
	Secret string // hex encoded
}

// String returns the key with the secret redacted so it is safe to log
func (k AdminKey) String() string {
	return k.ID + ":[redacted]"
}

// ParseAdminKey splits a combined "<keyId>:<secretHex>" admin key
func ParseAdminKey(combined string) (AdminKey, error) {
	combined = strings.TrimSpace(combined)
	if combined == "" {
		return AdminKey{}, fmt.Errorf("%w: admin key is empty", ErrInvalidKeyFormat)
	}

	parts := strings.Split(combined, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return AdminKey{}, fmt.Errorf("%w: expected \"<id>:<secretHex>\"", ErrInvalidKeyFormat)
	}

	if _, err := decodeSecret(parts[1]); err != nil {
		return AdminKey{}, err
	}

	return AdminKey{ID: parts[0], Secret: parts[1]}, nil
}

// Sign builds an HS256 compact JWS for the given key id, hex secret and claims.
//
// The header is {"alg":"HS256","typ":"JWT","kid":keyID}. The HMAC key is the
// hex-decoded secret, not its text form. Claims are passed through untouched;
// callers supply iat/exp themselves.
func Sign(keyID, secretHex string, claims jwt.MapClaims) (string, error) {
	if keyID == "" {
		return "", fmt.Errorf("%w: key id is empty", ErrInvalidKeyFormat)
	}

	secret, err := decodeSecret(secretHex)
	if err != nil {
		return "", err
	}

	if claims == nil {
		claims = jwt.MapClaims{}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = keyID

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	return signed, nil
}

// Verify checks an HS256 token against a hex secret and returns its claims.
// Extra parser options (leeway, audience, time func) are passed to the parser.
func Verify(tokenString, secretHex string, opts ...jwt.ParserOption) (jwt.MapClaims, error) {
	secret, err := decodeSecret(secretHex)
	if err != nil {
		return nil, err
	}

	opts = append([]jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}, opts...)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	return claims, nil
}

func decodeSecret(secretHex string) ([]byte, error) {
	if secretHex == "" {
		return nil, fmt.Errorf("%w: secret is empty", ErrInvalidKeyFormat)
	}

	secret, err := hex.DecodeString(secretHex)
	if err != nil {
		return nil, fmt.Errorf("%w: secret is not valid hex", ErrInvalidKeyFormat)
	}

	return secret, nil
}
