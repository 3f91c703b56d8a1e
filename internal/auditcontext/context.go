// Package auditcontext carries request-scoped audit attribution.
package auditcontext

import "context"

type contextKey string

const (
	requestIDKey contextKey = "audit_request_id"
	actorIDKey   contextKey = "audit_actor_id"
	ipAddressKey contextKey = "audit_ip_address"
	userAgentKey contextKey = "audit_user_agent"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

func WithActorID(ctx context.Context, actorID string) context.Context {
	if actorID == "" {
		return ctx
	}
	return context.WithValue(ctx, actorIDKey, actorID)
}

func ActorIDFromContext(ctx context.Context) string {
	value, _ := ctx.Value(actorIDKey).(string)
	return value
}

func WithIPAddress(ctx context.Context, ipAddress string) context.Context {
	if ipAddress == "" {
		return ctx
	}
	return context.WithValue(ctx, ipAddressKey, ipAddress)
}

func IPAddressFromContext(ctx context.Context) string {
	value, _ := ctx.Value(ipAddressKey).(string)
	return value
}

func WithUserAgent(ctx context.Context, userAgent string) context.Context {
	if userAgent == "" {
		return ctx
	}
	return context.WithValue(ctx, userAgentKey, userAgent)
}

func UserAgentFromContext(ctx context.Context) string {
	value, _ := ctx.Value(userAgentKey).(string)
	return value
}
