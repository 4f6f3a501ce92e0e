package main

import (
	"callvista/internal/auth"
	"callvista/internal/dashboard"
	"callvista/internal/httpapi"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal modules.
func registerRoutes(r *gin.Engine, authManager *auth.Manager, svc *dashboard.Service) {
	h := httpapi.Handlers{
		Auth:      authManager,
		Dashboard: svc,
	}

	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")

	// Token issuance (local/dev convenience; production terminates auth upstream).
	v1.POST("/auth/token", h.IssueToken)

	// Tenant-scoped dashboard API.
	dash := v1.Group("/dashboard")
	dash.Use(auth.RequireToken(authManager))
	{
		dash.GET("/metrics", h.Metrics)
		dash.GET("/export", h.Export)
	}
}
