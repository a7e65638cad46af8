package handlers

import (
	"net/http"

	"github.com/Harshad932/Infinova-sub000/internal/models"
	"github.com/Harshad932/Infinova-sub000/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler exposes the test lifecycle controls. Admin authentication
// sits in front of these routes and is outside this service.
type AdminHandler struct {
	log       *zap.Logger
	lifecycle *services.LifecycleService
	results   *services.ResultsService
}

func NewAdminHandler(log *zap.Logger, lifecycle *services.LifecycleService, results *services.ResultsService) *AdminHandler {
	return &AdminHandler{log: log, lifecycle: lifecycle, results: results}
}

// ImportTest accepts a YAML test definition body and creates the whole
// test graph as a draft.
func (h *AdminHandler) ImportTest(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil || len(raw) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "test definition body is required"})
		return
	}
	test, err := h.lifecycle.ImportDefinition(c.Request.Context(), raw)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, test)
}

func (h *AdminHandler) lifecycleAction(c *gin.Context, action func(ctx *gin.Context, testID uint) (*models.Test, error)) {
	testID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	test, err := action(c, testID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, test)
}

func (h *AdminHandler) Publish(c *gin.Context) {
	h.lifecycleAction(c, func(ctx *gin.Context, testID uint) (*models.Test, error) {
		return h.lifecycle.Publish(ctx.Request.Context(), testID)
	})
}

func (h *AdminHandler) Unpublish(c *gin.Context) {
	h.lifecycleAction(c, func(ctx *gin.Context, testID uint) (*models.Test, error) {
		return h.lifecycle.Unpublish(ctx.Request.Context(), testID)
	})
}

// GenerateCode responds with the join code in the body; it is the one
// place the code is revealed to the admin.
func (h *AdminHandler) GenerateCode(c *gin.Context) {
	testID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	test, err := h.lifecycle.GenerateCode(c.Request.Context(), testID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"test": test, "joinCode": test.JoinCode})
}

func (h *AdminHandler) Activate(c *gin.Context) {
	h.lifecycleAction(c, func(ctx *gin.Context, testID uint) (*models.Test, error) {
		return h.lifecycle.Activate(ctx.Request.Context(), testID)
	})
}

func (h *AdminHandler) End(c *gin.Context) {
	h.lifecycleAction(c, func(ctx *gin.Context, testID uint) (*models.Test, error) {
		return h.lifecycle.End(ctx.Request.Context(), testID)
	})
}

// OverallResults returns the cross-session aggregate for a test:
// per-session percentages, their mean, and the performance distribution.
func (h *AdminHandler) OverallResults(c *gin.Context) {
	testID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	results, err := h.results.Overall(c.Request.Context(), testID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
