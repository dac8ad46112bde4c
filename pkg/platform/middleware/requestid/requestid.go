// Package requestid assigns every request a correlation id, honoring one
// supplied by the caller.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"lexsync/pkg/requestcontext"
)

// Header carries the correlation id in and out.
const Header = "X-Request-Id"

// Middleware reads the inbound request id or mints a fresh one, stores it in
// the context and echoes it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
