package logmodule

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Ginrus returns a gin middleware which logs every request through logrus
// with the given prefix.
func Ginrus(prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		entry := logrus.WithFields(logrus.Fields{
			"prefix":     prefix,
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"ip":         c.ClientIP(),
			"latency":    time.Since(start),
			"user-agent": c.Request.UserAgent(),
		})
		if requestID := c.Writer.Header().Get("X-Request-Id"); requestID != "" {
			entry = entry.WithField("request_id", requestID)
		}

		msg := "request"
		if len(c.Errors) > 0 {
			msg = c.Errors.String()
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error(msg)
		case status >= 400:
			entry.Warn(msg)
		default:
			entry.Info(msg)
		}
	}
}
