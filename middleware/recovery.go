package middleware

import (
	"log/slog"
	"runtime/debug"

	"momentum/utils"

	"github.com/gin-gonic/gin"
)

func EnhancedRecoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorContext(c.Request.Context(), "Recovered from panic",
					slog.Any("panic", r),
					slog.String("path", c.Request.URL.Path),
					slog.String("request_id", c.GetString(RequestIDKey)),
					slog.String("stack", string(debug.Stack())))
				utils.TrackError("panic", "recovered")
				utils.InternalError(c, utils.NewError(utils.KindInternal, "Something went wrong!! please try again", nil))
				c.Abort()
			}
		}()
		c.Next()
	}
}
