package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Options configures the router middleware.
type Options struct {
	CORSOrigin     string
	MaxUploadBytes int64
}

// SetupRouter builds the gin engine with middleware and routes.
func SetupRouter(h *Handler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(cors(opts.CORSOrigin))
	if opts.MaxUploadBytes > 0 {
		r.Use(limitBody(opts.MaxUploadBytes))
	}

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	r.POST("/api/critique", h.HandleCritique)
	r.GET("/healthz", h.HandleHealthz)

	return r
}

func cors(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
