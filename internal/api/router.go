// Package api serves listings and score weights over HTTP with gin.
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tharaga/propmatch/internal/logger"
)

type RouterConfig struct {
	Handler     *Handler
	CORSOrigins []string
	Log         *logger.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(cfg.Log))
	router.Use(CORS(cfg.CORSOrigins))

	router.GET("/healthcheck", HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/properties", cfg.Handler.ListProperties)
		api.GET("/properties/:id", cfg.Handler.GetProperty)
		api.GET("/properties/:id/explain", cfg.Handler.ExplainProperty)

		api.GET("/weights", cfg.Handler.GetWeights)
		api.PATCH("/weights", cfg.Handler.PatchWeights)
		api.DELETE("/weights", cfg.Handler.ResetWeights)
	}

	return router
}

// CORS allows every origin when none are configured.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "X-Requested-With"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []any{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
