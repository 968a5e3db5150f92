// Package api provides the REST API server for midi2tone
package api

import (
	"fmt"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/james-see/midi2tone/pkg/config"
)

// @title midi2tone API
// @version 1.0
// @description API for converting MIDI tracks into tone generator melodies
// @host localhost:8080
// @BasePath /api/v1

// StartServer starts the API server on the configured port
func StartServer(cfg *config.Config) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewRouter(cfg).Run(fmt.Sprintf(":%d", cfg.Port))
}

// NewRouter builds the gin engine with all routes and middleware
func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	if cfg.SentryDSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(corsMiddleware())
	r.Use(requestTracking())

	// Health check
	r.GET("/health", healthCheck)

	h := &handlers{maxUploadBytes: cfg.MaxUploadBytes}

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.POST("/convert", h.convert)
		v1.GET("/targets", listTargets)
		v1.GET("/frequency/:note", noteFrequency)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
