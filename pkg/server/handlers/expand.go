package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	medgraph "github.com/soundprediction/medgraph"
	"github.com/soundprediction/medgraph/pkg/server/dto"
	"github.com/soundprediction/medgraph/pkg/types"
)

// ExpandHandler triggers expansion cycles over the graph.
type ExpandHandler struct {
	client *medgraph.Client
}

// NewExpandHandler creates a new expand handler.
func NewExpandHandler(client *medgraph.Client) *ExpandHandler {
	return &ExpandHandler{client: client}
}

// Expand handles POST /api/v1/expand. With cycles=0 it runs until the
// configured maximum or exhaustion; otherwise it runs exactly that many
// cycles. The process id tags the run in logs and telemetry.
func (h *ExpandHandler) Expand(c *gin.Context) {
	var req dto.ExpandRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		return
	}

	processID := uuid.NewString()
	ctx := context.WithValue(c.Request.Context(), types.ContextKeyCycleID, processID)

	var reports []types.CycleReport
	var err error
	if req.Cycles <= 0 {
		reports, err = h.client.Expand(ctx)
	} else {
		for i := 0; i < req.Cycles; i++ {
			var report *types.CycleReport
			report, err = h.client.ExpandCycle(ctx)
			if err != nil {
				break
			}
			reports = append(reports, *report)
			if report.Exhausted {
				break
			}
		}
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{
		"process_id": processID,
		"session_id": h.client.SessionID(),
		"reports":    reports,
		"summary":    h.client.Summary(),
	}))
}
