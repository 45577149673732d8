package audit

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"entertablock.io/internal/auth"
	"entertablock.io/internal/obs"
	"entertablock.io/internal/registry"
)

type ctxKey string

const requestIDKey ctxKey = "audit_request_id"

// WithRequestID attaches the request identifier to the context for audit logging.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// requestIDFromContext extracts the audit request id from context if present.
func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// LogEvent writes an audit log entry enriched with request and user context.
func LogEvent(ctx context.Context, event string, fields map[string]any) error {
	event = strings.TrimSpace(event)
	if event == "" {
		return errors.New("event name is required")
	}
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"type":  "audit",
		"event": event,
	}
	if rid := requestIDFromContext(ctx); rid != "" {
		entry["request_id"] = rid
	}
	if id, ok := auth.IdentityFromContext(ctx); ok {
		entry["identity"] = id.String()
	}
	if len(fields) > 0 {
		copyFields := make(map[string]any, len(fields))
		for k, v := range fields {
			copyFields[k] = v
		}
		entry["fields"] = copyFields
	} else {
		entry["fields"] = map[string]any{}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	obs.Logger().Println(string(data))
	return nil
}

// Emitter writes one audit line per committed registry activity.
type Emitter struct{}

func (Emitter) Emit(a registry.Activity) {
	fields := make(map[string]any, len(a.Attributes)+3)
	for k, v := range a.Attributes {
		fields[k] = v
	}
	fields["sequence"] = a.Sequence
	fields["caller"] = a.Caller.String()
	fields["occurred_at"] = a.OccurredAt.UTC().Format(time.RFC3339Nano)
	if err := LogEvent(context.Background(), a.Type, fields); err != nil {
		obs.Error("audit emit failed", map[string]any{"error": err.Error()})
	}
}
