package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	medgraph "github.com/soundprediction/medgraph"
	"github.com/soundprediction/medgraph/pkg/server/dto"
	"github.com/soundprediction/medgraph/pkg/types"
)

// GraphHandler serves graph inspection and mutation endpoints.
type GraphHandler struct {
	client *medgraph.Client
}

// NewGraphHandler creates a new graph handler.
func NewGraphHandler(client *medgraph.Client) *GraphHandler {
	return &GraphHandler{client: client}
}

// Summary handles GET /api/v1/graph/summary
func (h *GraphHandler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, dto.OK(h.client.Summary()))
}

// Dump handles GET /api/v1/graph/dump - the full node/edge listing used by
// persistence tooling.
func (h *GraphHandler) Dump(c *gin.Context) {
	c.JSON(http.StatusOK, dto.OK(gin.H{
		"session_id": h.client.SessionID(),
		"nodes":      h.client.Nodes(),
		"edges":      h.client.Edges(),
	}))
}

// GetNode handles GET /api/v1/graph/nodes/:id
func (h *GraphHandler) GetNode(c *gin.Context) {
	node, err := h.client.GetNode(c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, types.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, dto.Fail(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.OK(node))
}

// ValidateNode handles POST /api/v1/graph/nodes/:id/validate
func (h *GraphHandler) ValidateNode(c *gin.Context) {
	var req dto.ValidateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		return
	}

	node, err := h.client.ValidateNode(c.Param("id"), req.CUI)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, types.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, dto.Fail(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.OK(node))
}
