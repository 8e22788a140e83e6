package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"dipbuyer/internal/middleware"
)

// NewRouter creates a Gin engine with the monitoring routes configured.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery).
//   - Adds request timeout handling (10 seconds).
//   - Configures API v1 routes (/api/v1).
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in
//     app.InitializeApp().
func NewRouter(handler *Handler) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
	)

	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/status", handler.GetStatus)
		v1.GET("/buybacks", handler.GetBuybacks)
	}

	return router
}
