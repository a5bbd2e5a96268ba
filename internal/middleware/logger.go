package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"foodgram/internal/logging"
	"foodgram/internal/pkg/response"
)

// RequestLogger writes one structured access-log entry per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := requestEntry(c, start)
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request")
		case status >= http.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

// ErrorLogger logs detailed error information and recovers from panics.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				requestEntry(c, start).
					WithField("error_type", "panic").
					WithField("stack", string(debug.Stack())).
					Error(fmt.Sprintf("%v", recovered))

				response.Internal(c, "Internal server error")
				c.Abort()
				return
			}

			for _, err := range c.Errors {
				entry := requestEntry(c, start).WithField("error_type", fmt.Sprintf("%v", err.Type))
				if err.Meta != nil {
					entry = entry.WithField("meta", err.Meta)
				}
				entry.Error(err.Error())
			}
		}()

		c.Next()
	}
}

func requestEntry(c *gin.Context, start time.Time) *logrus.Entry {
	return logging.WithContext(c.Request.Context()).WithFields(logrus.Fields{
		"status":     c.Writer.Status(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"query":      c.Request.URL.RawQuery,
		"client_ip":  c.ClientIP(),
		"user_id":    c.GetInt64(ContextUserID),
		"latency_ms": time.Since(start).Milliseconds(),
	})
}
