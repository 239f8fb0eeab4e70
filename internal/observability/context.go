package observability

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// contextKey scopes values this package stores on a context.
type contextKey int

const (
	traceIDKey contextKey = iota
	spanIDKey
	requestIDKey
	categoryKey
	snapshotSourceKey
)

// Hex-encoded id sizes in bytes, compatible with W3C trace context.
const (
	traceIDBytes = 16
	spanIDBytes  = 8
)

// WithTraceID tags the context with a trace id.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// WithSpanID tags the context with a span id.
func WithSpanID(ctx context.Context, spanID string) context.Context {
	return context.WithValue(ctx, spanIDKey, spanID)
}

// WithRequestID tags the context with the id of the HTTP request being served.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithCategory tags the context with the estimate category being computed.
func WithCategory(ctx context.Context, category string) context.Context {
	return context.WithValue(ctx, categoryKey, category)
}

// WithSnapshotSource tags the context with the source a price snapshot is loaded from.
func WithSnapshotSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, snapshotSourceKey, source)
}

func GetTraceID(ctx context.Context) string { return stringValue(ctx, traceIDKey) }

func GetSpanID(ctx context.Context) string { return stringValue(ctx, spanIDKey) }

func GetRequestID(ctx context.Context) string { return stringValue(ctx, requestIDKey) }

func GetCategory(ctx context.Context) string { return stringValue(ctx, categoryKey) }

func GetSnapshotSource(ctx context.Context) string { return stringValue(ctx, snapshotSourceKey) }

func stringValue(ctx context.Context, key contextKey) string {
	value, _ := ctx.Value(key).(string)
	return value
}

// GenerateTraceID returns a 32 character hex trace id.
func GenerateTraceID() string {
	return randomHex(traceIDBytes)
}

// GenerateSpanID returns a 16 character hex span id.
func GenerateSpanID() string {
	return randomHex(spanIDBytes)
}

// GenerateRequestID returns a random UUID.
func GenerateRequestID() string {
	return uuid.NewString()
}

// randomHex falls back to UUID bytes if the system random source fails.
func randomHex(size int) string {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		id := uuid.New()
		copy(buf, id[:])
	}
	return hex.EncodeToString(buf)
}
