package logger

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GinLogger writes one access line per request.
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := []zap.Field{
			String("method", c.Request.Method),
			String("path", path),
			String("query", query),
			Int("status", c.Writer.Status()),
			Duration("latency", time.Since(start)),
			String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, String("errors", c.Errors.String()))
		}
		Info("request", fields...)
	}
}

// GinRecovery turns a panic into a 500 without leaking the stack to the client.
func GinRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Error("panic recovered",
					String("path", c.Request.URL.Path),
					String("error", fmt.Sprintf("%v", err)))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "An error occurred"})
			}
		}()
		c.Next()
	}
}
