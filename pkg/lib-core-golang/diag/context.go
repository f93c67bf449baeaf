package diag

import "context"

type contextKeys string

const (
	requestIDKey contextKeys = "requestID"
	actorIDKey   contextKeys = "actorID"
)

// ContextWithRequestID - create context with requestID
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDValue - returns requestID value taken from context
func RequestIDValue(ctx context.Context) string {
	val, _ := ctx.Value(requestIDKey).(string)
	return val
}

// ContextWithActorID - create context with ID of an actor performing the request
func ContextWithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorIDKey, actorID)
}

// ActorIDValue - returns actorID value taken from context
func ActorIDValue(ctx context.Context) string {
	val, _ := ctx.Value(actorIDKey).(string)
	return val
}
