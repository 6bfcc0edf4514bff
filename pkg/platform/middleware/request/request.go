package request

import (
	"net/http"

	"github.com/google/uuid"

	"easel/pkg/requestcontext"
)

// HeaderRequestID is honored when a trusted upstream already assigned an ID.
const HeaderRequestID = "X-Request-ID"

// WithRequestID assigns a correlation ID to every request and echoes it back
// in the response headers.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(HeaderRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
