package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"wpbreez_sync/metrics"
	"wpbreez_sync/pkg/logger"
)

// PrometheusMiddleware собирает метрики по маршруту (шаблону пути), а не по сырому URL.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Засекаем время начала обработки запроса.
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RecordRequest(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start))
	}
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		if status >= 500 {
			log.Error("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
			return
		}
		log.Log("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	}
}
