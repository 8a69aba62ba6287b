package middleware

import (
	"net/http"
	"time"

	"github.com/Varun5711/deeplinks/internal/logger"
)

func Logging(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := newResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			reqLog := log.With("request_id", GetRequestID(r.Context()))
			switch {
			case wrapped.statusCode >= 500:
				reqLog.Error("%s %s %d %v", r.Method, r.URL.Path, wrapped.statusCode, duration)
			case wrapped.statusCode >= 400:
				reqLog.Warn("%s %s %d %v", r.Method, r.URL.Path, wrapped.statusCode, duration)
			default:
				reqLog.Info("%s %s %d %v", r.Method, r.URL.Path, wrapped.statusCode, duration)
			}
		})
	}
}
