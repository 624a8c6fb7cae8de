package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	pkgerrors "appbuilder/pkg/errors"
)

// ClientLimiter is the part of the rate limiter the middleware needs
type ClientLimiter interface {
	Allow(ctx context.Context, ip string) (bool, error)
	RetryAfter(ip string) time.Duration
}

// RateLimit rejects clients over their budget with 429 and a Retry-After
// header. Limiter failures let the request through.
func RateLimit(limiter ClientLimiter, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			allowed, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				logger.Warn("Rate limiter failed", zap.String("ip", ip), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				wait := int(math.Ceil(limiter.RetryAfter(ip).Seconds()))
				if wait < 1 {
					wait = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(wait))
				errorHandler.Handle(w, r, pkgerrors.NewRateLimitedError(wait))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP reads the address RealIP left in RemoteAddr
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
