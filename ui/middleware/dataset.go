package middleware

import (
	"time"

	"biodash/internal"
	"biodash/ui/services"

	"github.com/gin-gonic/gin"
)

// RequireDataset aborts with 503 while no dataset is loaded, so chart and API
// handlers can assume one.
func RequireDataset(provider services.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := provider.Dataset(); err != nil {
			status, body := services.StatusFor(err)
			c.AbortWithStatusJSON(status, body)
			return
		}
		c.Next()
	}
}

// RequestLogger logs one line per request at debug level, and at warn level
// for server errors.
func RequestLogger(logger *internal.Logger) gin.HandlerFunc {
	log := logger.With("HTTP")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if status >= 500 {
			log.Warn("%s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
			return
		}
		log.Debug("%s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	}
}
