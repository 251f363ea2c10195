package middleware

import (
	"log/slog"
	"time"

	"momentum/utils"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line when a request starts and one when it
// completes, with the client parsed from its User-Agent.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()
		browser, os, device := utils.ParseUserAgent(c.Request.UserAgent())

		l := logger.With(
			slog.String("request_id", c.GetString(RequestIDKey)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)
		l.DebugContext(ctx, "request started",
			slog.String("client_ip", c.ClientIP()),
			slog.String("browser", browser),
			slog.String("os", os),
			slog.String("device", device))

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("size", c.Writer.Size()),
			slog.String("browser", browser),
			slog.String("os", os),
		}
		if result, ok := CurrentAuthResult(c); ok {
			attrs = append(attrs, slog.Bool("authenticated", result.Authenticated()))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			l.ErrorContext(ctx, "request completed", attrs...)
		case status >= 400:
			l.WarnContext(ctx, "request completed", attrs...)
		default:
			l.InfoContext(ctx, "request completed", attrs...)
		}
	}
}
