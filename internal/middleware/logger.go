package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger 记录每个请求；页面 GET 请求额外记录 page_view 事件
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		logger.Info("request", fields...)

		if isPageView(c.Request.Method, path, c.Writer.Status()) {
			pv := []zap.Field{zap.String("page_path", path)}
			if user := CurrentUser(c); user != nil {
				pv = append(pv, zap.String("user_id", user.ID))
			}
			logger.Info("page_view", pv...)
		}
	}
}

func isPageView(method, path string, status int) bool {
	if method != "GET" || status >= 300 {
		return false
	}
	for _, prefix := range []string{"/api/", "/static/", "/auth/"} {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return path != "/robots.txt" && path != "/sitemap.xml" && path != "/logout"
}
