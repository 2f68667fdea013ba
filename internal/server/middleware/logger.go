package middleware

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/hub-proxy/internal/outputs"
	"go.uber.org/zap"
)

// Logger logs one record per request using Zap: route, outcome, latency, and
// the upstream status when an upstream failure was involved.
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", latency),
		}

		if id := c.GetString(ContextKeyRequestID); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}

		if len(c.Errors) > 0 {
			var apiErr *outputs.Error
			if errors.As(c.Errors.Last().Err, &apiErr) {
				fields = append(fields, zap.String("outcome", apiErr.Kind))
				if apiErr.UpstreamStatus != 0 {
					fields = append(fields, zap.Int("upstream_status", apiErr.UpstreamStatus))
				}
			} else {
				fields = append(fields, zap.String("errors", c.Errors.String()))
			}
		} else {
			fields = append(fields, zap.String("outcome", "ok"))
		}

		msg := "Incoming Request"
		switch {
		case status >= 500:
			logger.Error(msg, fields...)
		case status >= 400:
			logger.Warn(msg, fields...)
		default:
			logger.Info(msg, fields...)
		}
	}
}
