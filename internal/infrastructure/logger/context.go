package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is a type for context keys used by the logger package
type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// GarageIDKey is the context key for the tenant garage ID
	GarageIDKey contextKey = "garage_id"
	// StaffIDKey is the context key for the authenticated staff ID
	StaffIDKey contextKey = "staff_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, returns a no-op logger if
// not found
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID adds request ID to context and returns enriched logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	enriched := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enriched), enriched
}

// WithGarageID adds the tenant garage ID to context and returns enriched logger
func WithGarageID(ctx context.Context, logger *zap.Logger, garageID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, GarageIDKey, garageID)
	enriched := logger.With(zap.String("garage_id", garageID))
	return WithContext(ctx, enriched), enriched
}

// WithStaffID adds the staff ID to context and returns enriched logger
func WithStaffID(ctx context.Context, logger *zap.Logger, staffID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, StaffIDKey, staffID)
	enriched := logger.With(zap.String("staff_id", staffID))
	return WithContext(ctx, enriched), enriched
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetGarageID retrieves the tenant garage ID from context
func GetGarageID(ctx context.Context) string {
	if garageID, ok := ctx.Value(GarageIDKey).(string); ok {
		return garageID
	}
	return ""
}

// GetStaffID retrieves the staff ID from context
func GetStaffID(ctx context.Context) string {
	if staffID, ok := ctx.Value(StaffIDKey).(string); ok {
		return staffID
	}
	return ""
}

// L returns the context logger enriched with the request, garage and staff
// identifiers present in ctx.
// Usage: logger.L(ctx).Info("message", zap.String("key", "value"))
func L(ctx context.Context) *zap.Logger {
	l := FromContext(ctx)
	if requestID := GetRequestID(ctx); requestID != "" {
		l = l.With(zap.String("request_id", requestID))
	}
	if garageID := GetGarageID(ctx); garageID != "" {
		l = l.With(zap.String("garage_id", garageID))
	}
	if staffID := GetStaffID(ctx); staffID != "" {
		l = l.With(zap.String("staff_id", staffID))
	}
	return l
}
