package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ByLCY/sheetpress/config"
)

// SetupRouter configures all Gin routes with their middlewares.
func SetupRouter(h *Handler, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	SetupValidator()

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-User-Id", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(RequestIDMiddleware())
	router.Use(requestLogger(log))

	router.GET("/health", func(c *gin.Context) {
		Success(c, http.StatusOK, gin.H{"status": "ok", "layout_ready": h.surface != nil && h.surface.Mounted()})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/preview", h.Preview)
		v1.POST("/preview/pdf", h.PreviewPDF)
		v1.POST("/worksheet-types/parse", h.ParseDefinition)

		types := v1.Group("/worksheet-types")
		types.Use(RequireUser(), h.requireStore())
		{
			types.GET("", h.ListTypes)
			types.POST("", h.CreateType)
			types.GET("/:id", h.GetType)
			types.PUT("/:id", h.UpdateType)
			types.DELETE("/:id", h.DeleteType)
			types.GET("/:id/preview", h.PreviewType)
		}
	}
	return router
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("component", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		evt := log.Info()
		if status >= http.StatusInternalServerError {
			evt = log.Error()
		} else if status >= http.StatusBadRequest {
			evt = log.Warn()
		}
		evt.
			Str("request_id", c.GetString(ContextKeyRequestID)).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
