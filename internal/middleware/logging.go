package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dumeirei/dorm-admin-backend/internal/common/logger"
)

// AccessLog 访问日志，探活接口与 skipPaths 不记录
func AccessLog(log *zap.Logger, skipPaths ...string) gin.HandlerFunc {
	skip := map[string]bool{"/health": true, "/ping": true, "/ready": true}
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			logger.RequestID(GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			logger.Latency(time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if adminID := GetAdminID(c); adminID != "" {
			fields = append(fields, logger.AdminID(adminID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			log.Error("admin request", fields...)
		case status >= 400:
			log.Warn("admin request", fields...)
		default:
			log.Info("admin request", fields...)
		}
	}
}
