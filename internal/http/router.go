package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Store, cfg.Version)
	annotations := NewAnnotationsController(cfg.Store)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Annotation endpoints
	router.GET("/api/books", annotations.ListBooks)
	router.GET("/api/books/:bookId/annotations", annotations.ListAnnotations)
	router.PATCH("/api/books/:bookId/annotations/:id", annotations.UpdateAnnotation)
	router.DELETE("/api/books/:bookId/annotations/:id", annotations.DeleteAnnotation)

	// Export endpoint
	if cfg.Exporter != nil {
		export := NewExportController(cfg.Exporter)
		router.POST("/api/export", export.TriggerExport)
	}

	return router
}
