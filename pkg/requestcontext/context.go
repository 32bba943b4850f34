// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values; services and handlers read them. The package
// stays free of net/http so the service layer never imports transport code.
//
// Usage in handlers (read values):
//
//	caller := requestcontext.CallerID(ctx)
//	role := requestcontext.CallerRole(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithCaller(ctx, personID, role)
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "dojoroll/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	callerIDKey    struct{}
	callerRoleKey  struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for tests that need raw context.WithValue.
var (
	ContextKeyCallerID    = callerIDKey{}
	ContextKeyCallerRole  = callerRoleKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// CallerID retrieves the authenticated caller's person ID from the context.
// Returns the zero value (nil UUID) if not set.
func CallerID(ctx context.Context) id.PersonID {
	if caller, ok := ctx.Value(ContextKeyCallerID).(id.PersonID); ok {
		return caller
	}
	return id.PersonID{}
}

// CallerRole retrieves the authenticated caller's role from the context.
// Returns the empty role if not set.
func CallerRole(ctx context.Context) id.Role {
	if role, ok := ctx.Value(ContextKeyCallerRole).(id.Role); ok {
		return role
	}
	return ""
}

// WithCaller injects the authenticated caller's identity into the context.
func WithCaller(ctx context.Context, caller id.PersonID, role id.Role) context.Context {
	ctx = context.WithValue(ctx, ContextKeyCallerID, caller)
	return context.WithValue(ctx, ContextKeyCallerRole, role)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now returns the request-scoped time when set, otherwise time.Now().
// Injecting a fixed time keeps time-sensitive tests deterministic.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a fixed request time into the context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
