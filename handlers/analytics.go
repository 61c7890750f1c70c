package handlers

import (
	"net/http"

	"maitred/services/summary"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler serves stored call records to the analytics frontend.
type AnalyticsHandler struct {
	Summary summary.Service
}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler(summarySvc summary.Service) *AnalyticsHandler {
	return &AnalyticsHandler{Summary: summarySvc}
}

// GetSummariesHandler fetches all call summaries and usage data.
func (h *AnalyticsHandler) GetSummariesHandler(c *gin.Context) {
	records, err := h.Summary.ListCallRecords(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": records})
}
