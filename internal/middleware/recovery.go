package middleware

import (
	"fmt"

	apperrors "github.com/academix/records/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery turns a handler panic into a 500 envelope. The panic value is
// logged with its stack but never echoed to the client, since it may carry
// student data.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered",
					zap.String("panic", fmt.Sprint(rec)),
					zap.String("request_id", RequestIDFrom(c)),
					zap.String("method", c.Request.Method),
					zap.String("route", c.FullPath()),
					zap.Stack("stack"),
				)
				panicsRecoveredTotal.Inc()

				if c.Writer.Written() {
					c.Abort()
					return
				}
				abortWithError(c, apperrors.ErrInternal)
			}
		}()

		c.Next()
	}
}
