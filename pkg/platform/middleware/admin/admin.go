// Package admin extracts the caller's admin credential from the request so
// the registry service's authorizer can evaluate it. The middleware itself
// does not decide anything: keeping the capability check inside the service
// means the gate is enforced even for non-HTTP callers and can be unit-tested
// without a router.
package admin

import (
	"net/http"
	"strings"

	"easel/pkg/requestcontext"
)

const (
	// HeaderAdminToken carries the shared admin token for operators that do
	// not use bearer tokens.
	HeaderAdminToken = "X-Admin-Token"

	bearerPrefix = "Bearer "
)

// ExtractCredential copies the presented admin credential (X-Admin-Token or
// an Authorization bearer token) into the request context.
func ExtractCredential(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		credential := r.Header.Get(HeaderAdminToken)
		if credential == "" {
			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, bearerPrefix) {
				credential = strings.TrimPrefix(auth, bearerPrefix)
			}
		}
		ctx := r.Context()
		if credential != "" {
			ctx = requestcontext.WithCredential(ctx, credential)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
