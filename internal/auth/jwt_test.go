package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var compactJWS = regexp.MustCompile(`^[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+$`)

func decodeSegment(t *testing.T, segment string) []byte {
	t.Helper()
	raw, err := base64.RawURLEncoding.DecodeString(segment)
	require.NoError(t, err)
	return raw
}

func TestSign(t *testing.T) {
	tests := []struct {
		name      string
		keyID     string
		secretHex string
		claims    jwt.MapClaims
	}{
		{
			name:      "single byte secret",
			keyID:     "abc",
			secretHex: "00",
			claims:    jwt.MapClaims{"iat": 0, "exp": 300},
		},
		{
			name:      "admin claims",
			keyID:     "6489b9a4e0c1f20001a2b3c4",
			secretHex: "a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90",
			claims:    jwt.MapClaims{"iat": 1700000000, "exp": 1700000300, "aud": "/admin/"},
		},
		{
			name:      "uppercase hex",
			keyID:     "key",
			secretHex: "DEADBEEF",
			claims:    jwt.MapClaims{"iat": 10, "exp": 310},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := Sign(tt.keyID, tt.secretHex, tt.claims)
			require.NoError(t, err)

			assert.Regexp(t, compactJWS, token)
			assert.NotContains(t, token, "=")

			parts := strings.Split(token, ".")
			require.Len(t, parts, 3)

			var header map[string]interface{}
			require.NoError(t, json.Unmarshal(decodeSegment(t, parts[0]), &header))
			assert.Equal(t, map[string]interface{}{
				"alg": "HS256",
				"typ": "JWT",
				"kid": tt.keyID,
			}, header)

			wantPayload, err := json.Marshal(tt.claims)
			require.NoError(t, err)
			assert.JSONEq(t, string(wantPayload), string(decodeSegment(t, parts[1])))
		})
	}
}

func TestSign_SignatureMatchesHMAC(t *testing.T) {
	token, err := Sign("id1", "48656c6c6f", jwt.MapClaims{"iat": 1000, "exp": 1300})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	assert.JSONEq(t, `{"iat":1000,"exp":1300}`, string(decodeSegment(t, parts[1])))

	mac := hmac.New(sha256.New, []byte{0x48, 0x65, 0x6c, 0x6c, 0x6f})
	mac.Write([]byte(parts[0] + "." + parts[1]))
	assert.Equal(t, mac.Sum(nil), decodeSegment(t, parts[2]))
}

func TestSign_SecretIsDecodedFromHex(t *testing.T) {
	token, err := Sign("id1", "48656c6c6f", jwt.MapClaims{"iat": 1000, "exp": 1300})
	require.NoError(t, err)
	parts := strings.Split(token, ".")

	// The hex text itself must not be the key.
	mac := hmac.New(sha256.New, []byte("48656c6c6f"))
	mac.Write([]byte(parts[0] + "." + parts[1]))
	assert.NotEqual(t, mac.Sum(nil), decodeSegment(t, parts[2]))
}

func TestSign_Deterministic(t *testing.T) {
	claims := jwt.MapClaims{"iat": 0, "exp": 300}

	first, err := Sign("abc", "00", claims)
	require.NoError(t, err)
	second, err := Sign("abc", "00", claims)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSign_Errors(t *testing.T) {
	tests := []struct {
		name      string
		keyID     string
		secretHex string
		claims    jwt.MapClaims
		wantErr   error
	}{
		{"non hex secret", "abc", "zz", jwt.MapClaims{"iat": 0}, ErrInvalidKeyFormat},
		{"odd length secret", "abc", "abc", jwt.MapClaims{"iat": 0}, ErrInvalidKeyFormat},
		{"empty secret", "abc", "", jwt.MapClaims{"iat": 0}, ErrInvalidKeyFormat},
		{"empty key id", "", "00", jwt.MapClaims{"iat": 0}, ErrInvalidKeyFormat},
		{"unserializable claim", "abc", "00", jwt.MapClaims{"bad": make(chan int)}, ErrSerialization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := Sign(tt.keyID, tt.secretHex, tt.claims)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, token)
		})
	}
}

func TestParseAdminKey(t *testing.T) {
	tests := []struct {
		name     string
		combined string
		want     AdminKey
		wantErr  bool
	}{
		{
			name:     "valid key",
			combined: "id1:48656c6c6f",
			want:     AdminKey{ID: "id1", Secret: "48656c6c6f"},
		},
		{
			name:     "surrounding whitespace",
			combined: "  id1:48656c6c6f\n",
			want:     AdminKey{ID: "id1", Secret: "48656c6c6f"},
		},
		{name: "empty", combined: "", wantErr: true},
		{name: "missing separator", combined: "id148656c6c6f", wantErr: true},
		{name: "too many parts", combined: "id1:4865:6c6c6f", wantErr: true},
		{name: "missing id", combined: ":48656c6c6f", wantErr: true},
		{name: "missing secret", combined: "id1:", wantErr: true},
		{name: "non hex secret", combined: "id1:zz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ParseAdminKey(tt.combined)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKeyFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, key)
		})
	}
}

func TestAdminKey_StringRedactsSecret(t *testing.T) {
	key := AdminKey{ID: "id1", Secret: "48656c6c6f"}
	assert.Equal(t, "id1:[redacted]", key.String())
	assert.NotContains(t, key.String(), key.Secret)
}

func TestVerify(t *testing.T) {
	token, err := Sign("id1", "48656c6c6f", jwt.MapClaims{"iat": 1000, "exp": 1300, "aud": "/admin/"})
	require.NoError(t, err)

	t.Run("valid signature", func(t *testing.T) {
		claims, err := Verify(token, "48656c6c6f", jwt.WithoutClaimsValidation())
		require.NoError(t, err)
		assert.Equal(t, float64(1000), claims["iat"])
		assert.Equal(t, float64(1300), claims["exp"])
		assert.Equal(t, "/admin/", claims["aud"])
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := Verify(token, "00", jwt.WithoutClaimsValidation())
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		_, err := Verify(token, "48656c6c6f")
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("malformed secret", func(t *testing.T) {
		_, err := Verify(token, "zz")
		assert.ErrorIs(t, err, ErrInvalidKeyFormat)
	})
}
