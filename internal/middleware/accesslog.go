package middleware

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/handlers"
	"go.uber.org/zap"
)

// AccessLog logs one line per request. It must be registered after RequestMeta
// to include the request ID and client IP.
func AccessLog(logger *zap.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		next(ctx)

		meta := handlers.RequestMetaFromContext(ctx.Context())
		status := ctx.Status()

		fields := []zap.Field{
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.URL().Path),
			zap.String("operation", ctx.Operation().OperationID),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("requestId", meta.RequestID),
			zap.String("clientIp", meta.ClientIP),
			zap.String("userAgent", meta.UserAgent),
			zap.String("referrer", meta.Referrer),
		}

		if status >= 500 {
			logger.Error("http request", fields...)

			return
		}

		logger.Info("http request", fields...)
	}
}
