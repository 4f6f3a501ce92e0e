package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"callvista/internal/auth"
	"callvista/internal/dashboard"
	"callvista/internal/export"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth      *auth.Manager
	Dashboard *dashboard.Service
}

// --- Auth ---

type tokenRequest struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
}

// IssueToken signs an access token for local/dev use.
//
// NOTE: Real deployments terminate authentication upstream; this endpoint
// exists so the dashboard API is usable standalone.
func (h Handlers) IssueToken(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.UserID == "" || req.TenantID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user_id and tenant_id required"})
		return
	}
	tok, err := h.Auth.Issue(time.Now(), req.UserID, req.TenantID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": tok})
}

// --- Dashboard ---

// Metrics recomputes and returns the dashboard report for the caller's
// tenant. A fetch failure still returns the well-formed empty report, with
// an error indicator, so clients never render a partial dashboard.
func (h Handlers) Metrics(c *gin.Context) {
	if h.Dashboard == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "dashboard not configured"})
		return
	}
	tenantID, err := auth.TenantID(c.Request.Context())
	if err != nil || tenantID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "tenant_id required"})
		return
	}

	var f dashboard.Filters
	if err := c.ShouldBindQuery(&f); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid filters"})
		return
	}
	opts := dashboard.Options{Refresh: c.Query("refresh") == "true"}

	report, err := h.Dashboard.Recompute(c.Request.Context(), tenantID, f, opts)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, dashboard.ErrFetchFailed) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": "report unavailable", "report": report})
		return
	}
	c.JSON(http.StatusOK, report)
}

// Export streams the report as an XLSX workbook.
func (h Handlers) Export(c *gin.Context) {
	if h.Dashboard == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "dashboard not configured"})
		return
	}
	tenantID, err := auth.TenantID(c.Request.Context())
	if err != nil || tenantID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "tenant_id required"})
		return
	}

	var f dashboard.Filters
	if err := c.ShouldBindQuery(&f); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid filters"})
		return
	}

	report, err := h.Dashboard.Recompute(c.Request.Context(), tenantID, f, dashboard.Options{})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "report unavailable"})
		return
	}

	b, err := export.WriteReport(report)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	filename := fmt.Sprintf("dashboard-%s-%s.xlsx", tenantID, report.GeneratedAt.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", b)
}
