package middleware

import (
	"net/http"

	"github.com/lfapurpose/ghost-gateway/utils"
)

// Preflight answers every OPTIONS request with 204 and an empty body.
// It sits behind the CORS handler, which has already set the Access-Control
// headers for genuine preflights.
func Preflight(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			utils.WriteNoContent(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
