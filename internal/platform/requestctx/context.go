package requestctx

import (
	"context"

	"go.uber.org/zap"

	"github.com/kushal-tech/houseofneelam/internal/domain"
)

type contextKey string

const (
	loggerContextKey  contextKey = "github.com/kushal-tech/houseofneelam/internal/platform/requestctx/logger"
	userContextKey    contextKey = "github.com/kushal-tech/houseofneelam/internal/platform/requestctx/user"
	sessionContextKey contextKey = "github.com/kushal-tech/houseofneelam/internal/platform/requestctx/session"
	tokenContextKey   contextKey = "github.com/kushal-tech/houseofneelam/internal/platform/requestctx/token"
	traceContextKey   contextKey = "github.com/kushal-tech/houseofneelam/internal/platform/requestctx/trace"
)

// TraceInfo captures trace metadata propagated through request context.
type TraceInfo struct {
	TraceID string
	SpanID  string
	Sampled bool
}

var noopLogger = zap.NewNop()

// WithLogger stores the logger in context for downstream consumers.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = noopLogger
	}
	return context.WithValue(ctx, loggerContextKey, logger)
}

// Logger retrieves the zap logger from context or returns a no-op logger.
func Logger(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return noopLogger
	}
	if logger, ok := ctx.Value(loggerContextKey).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return noopLogger
}

// NoopLogger exposes the shared noop logger instance used across the package.
func NoopLogger() *zap.Logger { return noopLogger }

// WithUser stores the authenticated storefront user on the context.
func WithUser(ctx context.Context, user domain.User) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userContextKey, user)
}

// User retrieves the authenticated user from context when present.
func User(ctx context.Context) (domain.User, bool) {
	if ctx == nil {
		return domain.User{}, false
	}
	user, ok := ctx.Value(userContextKey).(domain.User)
	if !ok || user.ID == "" {
		return domain.User{}, false
	}
	return user, true
}

// WithSessionID stores the storefront session identifier on the context.
func WithSessionID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionContextKey, id)
}

// SessionID extracts the storefront session identifier from context.
func SessionID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(sessionContextKey).(string)
	return id
}

// WithTrace stores the trace metadata on the context for downstream usage.
func WithTrace(ctx context.Context, info TraceInfo) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, traceContextKey, info)
}

// Trace retrieves the trace metadata from context when present.
func Trace(ctx context.Context) (TraceInfo, bool) {
	if ctx == nil {
		return TraceInfo{}, false
	}
	info, ok := ctx.Value(traceContextKey).(TraceInfo)
	if !ok || info.TraceID == "" {
		return TraceInfo{}, false
	}
	return info, true
}

// TraceID extracts the trace identifier from context, empty when absent.
func TraceID(ctx context.Context) string {
	info, _ := Trace(ctx)
	return info.TraceID
}

// WithRemoteToken stores the remote API session token on the context.
func WithRemoteToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, tokenContextKey, token)
}

// RemoteToken extracts the remote API session token from context.
func RemoteToken(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}
