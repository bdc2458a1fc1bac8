package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	medgraph "github.com/soundprediction/medgraph"
)

// Build information - can be set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// HealthHandler handles health check requests
type HealthHandler struct {
	client *medgraph.Client
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(client *medgraph.Client) *HealthHandler {
	return &HealthHandler{client: client}
}

// HealthCheck handles GET /health - basic liveness check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "medgraph",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// ReadinessCheck handles GET /ready - the store is in-memory, so readiness
// only verifies the client is wired.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	if h.client == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	summary := h.client.Summary()
	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"service":    "medgraph",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"node_count": summary.NodeCount,
	})
}

// LivenessCheck handles GET /live
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "alive",
		"go_version": GoVersion,
		"commit":     GitCommit,
		"built":      BuildTime,
	})
}
