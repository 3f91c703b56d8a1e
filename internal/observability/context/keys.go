// Package context carries request-scoped observability identifiers.
package context

import "context"

type contextKey string

const (
	requestIDKey contextKey = "observability_request_id"
	actorIDKey   contextKey = "observability_actor_id"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

func WithActorID(ctx context.Context, actorID string) context.Context {
	if ctx == nil || actorID == "" {
		return ctx
	}
	return context.WithValue(ctx, actorIDKey, actorID)
}

func ActorIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(actorIDKey).(string)
	return value
}
