package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID injects an X-Request-ID header into the request and response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger logs one line per request. Health probes are skipped to keep the
// log readable under frequent orchestrator polling.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/healthz" || path == "/readyz" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		requestID, _ := c.Get("request_id")
		if len(c.Errors) > 0 {
			log.Printf("http: %s %s %d %s rid=%v errors=%s",
				c.Request.Method, path, c.Writer.Status(), latency, requestID, c.Errors.String())
			return
		}
		log.Printf("http: %s %s %d %s rid=%v",
			c.Request.Method, path, c.Writer.Status(), latency, requestID)
	}
}

// Recovery turns panics into a JSON 500 carrying the request id, so clients
// get the same error envelope as handled failures.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID, _ := c.Get("request_id")
		log.Printf("http: panic recovered rid=%v: %v", requestID, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "an internal error occurred",
			},
		})
	})
}
