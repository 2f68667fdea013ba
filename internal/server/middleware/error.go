package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/hub-proxy/internal/outputs"
	"go.uber.org/zap"
)

type errorBody struct {
	Kind           string `json:"kind"`
	Message        string `json:"message"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
	Retryable      bool   `json:"retryable,omitempty"`
}

// ErrorHandler converts errors attached by handlers into structured JSON
// responses. Anything that is not an *outputs.Error becomes a 500; the
// process never dies for a request-level failure.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var apiErr *outputs.Error
		if !errors.As(err, &apiErr) {
			logger.Error("unhandled error", zap.Error(err))
			apiErr = outputs.Internal(err)
		}

		if apiErr.Log != nil {
			logger.Error("request failed",
				zap.String("kind", apiErr.Kind),
				zap.Error(apiErr.Log),
			)
		}

		c.JSON(apiErr.Code, gin.H{"error": errorBody{
			Kind:           apiErr.Kind,
			Message:        apiErr.Message,
			UpstreamStatus: apiErr.UpstreamStatus,
			Retryable:      apiErr.Retryable(),
		}})
		c.Abort()
	}
}
