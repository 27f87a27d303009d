package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger creates a logging middleware using zap
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		// Process request
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", RequestIDFrom(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
		}
		if claims, ok := ClaimsFrom(c); ok {
			fields = append(fields, zap.Int64("user_id", claims.UserID), zap.String("role", claims.Role))
		}

		// Query strings are not logged; report links may carry ids
		logger.Info("request", fields...)

		for _, e := range c.Errors {
			logger.Error("request error",
				zap.String("request_id", RequestIDFrom(c)),
				zap.Error(e.Err),
			)
		}
	}
}
