package handlers

import (
	"net/http"
	"strconv"

	"github.com/Harshad932/Infinova-sub000/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ResultsHandler struct {
	log *zap.Logger
	svc *services.ResultsService
}

func NewResultsHandler(log *zap.Logger, svc *services.ResultsService) *ResultsHandler {
	return &ResultsHandler{log: log, svc: svc}
}

func (h *ResultsHandler) resolveParticipant(c *gin.Context) (uint, bool) {
	var explicit uint
	if raw := c.Query("participantId"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid participantId"})
			return 0, false
		}
		explicit = uint(v)
	}
	pid, ok := participantID(c, explicit)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "participantId is required"})
		return 0, false
	}
	return pid, true
}

// CategoryResults returns the category rollup and overall percentage for
// one participant's session.
func (h *ResultsHandler) CategoryResults(c *gin.Context) {
	testID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	pid, ok := h.resolveParticipant(c)
	if !ok {
		return
	}

	summary, err := h.svc.SessionSummary(c.Request.Context(), testID, pid)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories":        summary.Categories,
		"overallPercentage": summary.Overall,
	})
}

// SubcategoryResults returns the subcategory rollup for one
// participant's session.
func (h *ResultsHandler) SubcategoryResults(c *gin.Context) {
	testID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	pid, ok := h.resolveParticipant(c)
	if !ok {
		return
	}

	summary, err := h.svc.SessionSummary(c.Request.Context(), testID, pid)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"subcategories":     summary.Subcategories,
		"overallPercentage": summary.Overall,
	})
}
