package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Counter reports row counts for the health endpoint
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// HealthController reports server and database health
type HealthController struct {
	students Counter
	admins   Counter
	requests Counter
	logger   zerolog.Logger
}

// NewHealthController creates a new HealthController
func NewHealthController(students, admins, requests Counter, logger zerolog.Logger) *HealthController {
	return &HealthController{
		students: students,
		admins:   admins,
		requests: requests,
		logger:   logger,
	}
}

// Root returns a server banner with the available endpoints
func (c *HealthController) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "ResCare server is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"endpoints": []string{
			"GET /api/health",
			"POST /api/login",
			"POST /api/students/register",
			"DELETE /api/students/:id",
			"POST /api/requests",
			"GET /api/requests",
			"GET /api/requests/block/:residence/:block",
			"PUT /api/requests/:id/status",
			"GET /ws",
		},
	})
}

// Health checks database connectivity and returns row counts
func (c *HealthController) Health(ctx *gin.Context) {
	reqCtx := ctx.Request.Context()

	studentCount, err := c.students.Count(reqCtx)
	if err != nil {
		c.healthError(ctx, err)
		return
	}

	adminCount, err := c.admins.Count(reqCtx)
	if err != nil {
		c.healthError(ctx, err)
		return
	}

	requestCount, err := c.requests.Count(reqCtx)
	if err != nil {
		c.healthError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":   true,
		"database":  "connected",
		"students":  studentCount,
		"admins":    adminCount,
		"requests":  requestCount,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (c *HealthController) healthError(ctx *gin.Context, err error) {
	c.logger.Error().Err(err).Msg("Health check failed")
	ctx.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": "Database connection failed",
	})
}
