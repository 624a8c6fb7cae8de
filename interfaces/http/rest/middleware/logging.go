package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger creates a logging middleware. Server errors log at error level,
// health probes at debug.
func Logger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status code
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			}
			if projectID := chi.URLParamFromCtx(r.Context(), "projectID"); projectID != "" {
				fields = append(fields, zap.String("project_id", projectID))
			}

			logger.Log(levelFor(r, ww.Status()), "HTTP Request", fields...)
		})
	}
}

func levelFor(r *http.Request, status int) zapcore.Level {
	switch {
	case status >= 500:
		return zapcore.ErrorLevel
	case r.URL.Path == "/health" || r.URL.Path == "/ready" || r.URL.Path == "/metrics":
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}
