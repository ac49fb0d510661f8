package auth

import (
	"fmt"
	"net/http"
)

// Scheme is the Authorization scheme Ghost uses for admin tokens
const Scheme = "Ghost"

// AuthorizationHeader formats a token as an Authorization header value
func AuthorizationHeader(token string) string {
	return Scheme + " " + token
}

// Transport signs every outbound request with a freshly minted admin token
type Transport struct {
	Signer *Signer
	Base   http.RoundTripper
}

// NewTransport wraps base (http.DefaultTransport when nil) with admin token signing
func NewTransport(signer *Signer, base http.RoundTripper) *Transport {
	return &Transport{Signer: signer, Base: base}
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.Signer.Token()
	if err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, fmt.Errorf("failed to sign request: %w", err)
	}

	signed := req.Clone(req.Context())
	signed.Header.Set("Authorization", AuthorizationHeader(token))

	return t.base().RoundTrip(signed)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
