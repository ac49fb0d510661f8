package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
	"github.com/lfapurpose/ghost-gateway/internal/shared"
)

// requestIDPattern bounds what an inbound X-Request-ID may contain before it
// is echoed back and forwarded to Ghost
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:\-]{1,128}$`)

// RequestID assigns every request an ID. A well formed inbound X-Request-ID
// is kept; otherwise a random UUID is generated. The ID is stored in the
// request context and echoed in the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(shared.RequestIDHeader)
		if !requestIDPattern.MatchString(requestID) {
			requestID = uuid.NewString()
		}

		w.Header().Set(shared.RequestIDHeader, requestID)
		ctx := shared.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
