// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values; services read them. Keeping the package free
// of net/http lets domain code consume request metadata without pulling
// transport dependencies.
//
// Usage in services (read values):
//
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//	ctx = requestcontext.WithCredential(ctx, token)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"
)

// Context key types (unexported for encapsulation).
type (
	requestIDKey   struct{}
	requestTimeKey struct{}
	credentialKey  struct{}
	actorKey       struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
	ContextKeyCredential  = credentialKey{}
	ContextKeyActor       = actorKey{}
)

// RequestID retrieves the correlation ID assigned by the request middleware.
// Returns empty string if not set.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a correlation ID into the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, id)
}

// Credential retrieves the caller's presented credential (admin token or
// bearer token). Authorizers consume this; nothing else should.
func Credential(ctx context.Context) string {
	if c, ok := ctx.Value(ContextKeyCredential).(string); ok {
		return c
	}
	return ""
}

// WithCredential injects the caller's presented credential into the context.
func WithCredential(ctx context.Context, credential string) context.Context {
	return context.WithValue(ctx, ContextKeyCredential, credential)
}

// Actor retrieves the identity the authorizer resolved for the caller.
// Returns empty string when the caller is unauthenticated.
func Actor(ctx context.Context) string {
	if a, ok := ctx.Value(ContextKeyActor).(string); ok {
		return a
	}
	return ""
}

// WithActor records the resolved caller identity for audit attribution.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, ContextKeyActor, actor)
}

// Now returns the request timestamp if one was injected, otherwise wall-clock
// time. Tests inject a fixed time with WithTime for deterministic records.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a fixed request timestamp into the context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
