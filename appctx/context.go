package appctx

import (
	"context"
)

type contextKey string

const EventIDContextKey contextKey = "event_id"

// SetEventID tags the context with the correlation ID of the gateway event being handled
func SetEventID(ctx context.Context, eventID string) context.Context {
	return context.WithValue(ctx, EventIDContextKey, eventID)
}

// GetEventID extracts the event correlation ID from the context
func GetEventID(ctx context.Context) (string, bool) {
	eventID, ok := ctx.Value(EventIDContextKey).(string)
	return eventID, ok
}

// EventIDOrUnknown is GetEventID for log lines
func EventIDOrUnknown(ctx context.Context) string {
	if eventID, ok := GetEventID(ctx); ok {
		return eventID
	}
	return "unknown"
}
