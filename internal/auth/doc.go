// Package auth mints the short-lived tokens used to call the Ghost Admin API.
//
// This package implements:
//   - Admin key parsing ("<keyId>:<secretHex>")
//   - HS256 compact JWS signing with a header-level kid
//   - The standard Ghost admin claim set (iat, exp, aud)
//   - An http.RoundTripper that signs every outbound request
//
// Tokens are never cached. Every request gets a fresh token.
package auth
