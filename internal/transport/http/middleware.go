package http

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// Logger logs one line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		errorsStr := c.Errors.ByType(gin.ErrorTypePrivate).String()
		if errorsStr == "" {
			errorsStr = "None"
		}
		log.Printf("INFO: [HTTP] %s | %3d | %13v | %15s | %-7s %s | request_id=%s | errors=%s",
			start.Format("2006/01/02 - 15:04:05"),
			c.Writer.Status(),
			latency,
			c.ClientIP(),
			c.Request.Method,
			c.Request.RequestURI,
			c.GetString(requestIDHeader),
			errorsStr,
		)
	}
}

// Cors allows requests from any origin.
func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", requestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// sendJSONError writes {"error": publicMsg}; internal details only reach the log.
func sendJSONError(c *gin.Context, status int, publicMsg string, internalErr error) {
	if internalErr != nil {
		_ = c.Error(internalErr)
		log.Printf("ERROR: [HTTP] status=%d message=%q error=%v path=%s request_id=%s",
			status, publicMsg, internalErr, c.Request.URL.Path, c.GetString(requestIDHeader))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": publicMsg})
}
