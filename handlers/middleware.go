package handlers

import (
	"time"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"printflow/metrics"
)

// RequestLogger logs every request once it completes and records its duration
// under the matched route pattern.
func RequestLogger(logger *zap.Logger) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		start := time.Now()
		err := e.Next()
		elapsed := time.Since(start)

		route := e.Request.Pattern
		if route == "" {
			route = "unmatched"
		}
		status := e.Status()
		if status == 0 {
			status = 200
		}
		metrics.RecordRequest(e.Request.Method, route, status, elapsed)

		fields := []zap.Field{
			zap.String("method", e.Request.Method),
			zap.String("path", e.Request.URL.Path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
			zap.Bool("htmx", isHTMX(e)),
		}
		if err != nil {
			logger.Warn("request failed", append(fields, zap.Error(err))...)
		} else {
			logger.Debug("request", fields...)
		}
		return err
	}
}

func isHTMX(e *core.RequestEvent) bool {
	return e.Request.Header.Get("HX-Request") == "true"
}
