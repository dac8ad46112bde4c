// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets values, services read them. Keeping this package free of
// net/http lets services import only what they need.
//
// Usage in services (read values):
//
//	p := requestcontext.Caller(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithCaller(ctx, principal)
package requestcontext

import (
	"context"
	"time"
)

// Role values supplied by the identity layer.
const (
	RoleAdmin  = "admin"
	RoleSystem = "system"
	RoleClient = "client"
)

// Principal identifies the caller for visibility decisions. The core never
// authenticates; it only consumes what the identity middleware extracted.
type Principal struct {
	TenantID     string
	TenantName   string
	Role         string
	Capabilities []string
}

// Admin reports whether the principal may use administrative endpoints.
func (p Principal) Admin() bool {
	return p.Role == RoleAdmin || p.Role == RoleSystem
}

// HasCapability reports whether a capability was granted to the principal.
func (p Principal) HasCapability(name string) bool {
	for _, c := range p.Capabilities {
		if c == name {
			return true
		}
	}
	return false
}

type (
	callerKey      struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Caller retrieves the authenticated principal from the context.
// Returns the zero value if not set.
func Caller(ctx context.Context) Principal {
	if p, ok := ctx.Value(callerKey{}).(Principal); ok {
		return p
	}
	return Principal{}
}

// WithCaller injects a principal into the context.
func WithCaller(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, callerKey{}, p)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// Now returns the request time from the context, falling back to time.Now.
// Token expiry checks read the clock through here so tests can pin time.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a fixed time into the context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
