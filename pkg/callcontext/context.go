package callcontext

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type KeyContext string

var (
	keyCallID    KeyContext = "call_id"
	keyAPIMethod KeyContext = "api_method"
	keyStartTime KeyContext = "call_start_time"
)

// CallMetadata describes one API call in flight
type CallMetadata struct {
	CallID    uuid.UUID
	APIMethod string
	StartTime time.Time
}

// Begin derives a context tagged with a fresh call ID, the API method and the start time.
// An existing call ID on parentCtx is kept so nested calls share it.
func Begin(parentCtx context.Context, apiMethod string) context.Context {
	callID, ok := GetCallID(parentCtx)
	if !ok {
		callID = uuid.New()
	}

	ctx := context.WithValue(parentCtx, keyCallID, callID)
	ctx = context.WithValue(ctx, keyAPIMethod, apiMethod)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())
	return ctx
}

// GetCallID extracts call ID from context
func GetCallID(ctx context.Context) (uuid.UUID, bool) {
	callID, ok := ctx.Value(keyCallID).(uuid.UUID)
	return callID, ok
}

// GetAPIMethod extracts the API method from context
func GetAPIMethod(ctx context.Context) (string, bool) {
	method, ok := ctx.Value(keyAPIMethod).(string)
	return method, ok
}

// Elapsed returns the time since Begin, or 0 if the context was not started with Begin
func Elapsed(ctx context.Context) time.Duration {
	start, ok := ctx.Value(keyStartTime).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start)
}

// GetMetadata collects all call metadata from context
func GetMetadata(ctx context.Context) CallMetadata {
	callID, _ := GetCallID(ctx)
	method, _ := GetAPIMethod(ctx)
	start, _ := ctx.Value(keyStartTime).(time.Time)
	return CallMetadata{
		CallID:    callID,
		APIMethod: method,
		StartTime: start,
	}
}

// Fields returns zap fields for structured logging of the call
func Fields(ctx context.Context) []zap.Field {
	md := GetMetadata(ctx)
	fields := make([]zap.Field, 0, 3)
	if md.CallID != uuid.Nil {
		fields = append(fields, zap.String("call_id", md.CallID.String()))
	}
	if md.APIMethod != "" {
		fields = append(fields, zap.String("method", md.APIMethod))
	}
	if !md.StartTime.IsZero() {
		fields = append(fields, zap.Duration("elapsed", time.Since(md.StartTime)))
	}
	return fields
}
