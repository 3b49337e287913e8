package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"alcyxob/portfolio-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Constants for context keys and headers
const (
	ContextLoggerKey    = "logger"
	AdminPasswordHeader = "x-admin-password"
	RequestIDHeader     = "X-Request-ID"
)

// multipartOverhead is the body allowance on top of the file size limit for
// the form fields and multipart framing.
const multipartOverhead = 1 << 20

// AdminMiddleware rejects the request unless the admin password header
// matches the configured secret. It runs before the body is read.
func AdminMiddleware(gate *service.AdminGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !gate.Check(c.GetHeader(AdminPasswordHeader)) {
			loggerFrom(c).Warn("admin check failed", slog.String("route", c.FullPath()))
			abortWithError(c, http.StatusUnauthorized, "Unauthorized: invalid admin password")
			return
		}
		c.Next()
	}
}

// BodyLimitMiddleware caps the request body so oversized uploads fail while
// being read instead of after being buffered.
func BodyLimitMiddleware(maxFileBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxFileBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFileBytes+multipartOverhead)
		}
		c.Next()
	}
}

// RequestLogger attaches a request-scoped logger carrying the request id and
// logs one line per request once it completes.
func RequestLogger(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		logger := base.With(slog.String("request_id", requestID))
		c.Set(ContextLoggerKey, logger)

		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("route", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()))
	}
}

// Recovery turns panics into the usual JSON error body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		loggerFrom(c).Error("panic while handling request", slog.Any("panic", recovered))
		abortWithError(c, http.StatusInternalServerError, fmt.Sprint(recovered))
	})
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// loggerFrom returns the request-scoped logger, or the default one outside RequestLogger.
func loggerFrom(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(ContextLoggerKey); ok {
		if logger, ok := v.(*slog.Logger); ok {
			return logger
		}
	}
	return slog.Default()
}
