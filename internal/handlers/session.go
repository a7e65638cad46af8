package handlers

import (
	"net/http"
	"strconv"

	"github.com/Harshad932/Infinova-sub000/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SessionHandler struct {
	log      *zap.Logger
	sessions *services.SessionService
	delivery *services.DeliveryService
	intake   *services.IntakeService
}

func NewSessionHandler(log *zap.Logger, sessions *services.SessionService, delivery *services.DeliveryService, intake *services.IntakeService) *SessionHandler {
	return &SessionHandler{log: log, sessions: sessions, delivery: delivery, intake: intake}
}

type startSessionRequest struct {
	ParticipantID uint `json:"participantId"`
}

func (h *SessionHandler) Start(c *gin.Context) {
	testID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start payload"})
		return
	}
	pid, ok := participantID(c, req.ParticipantID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "participantId is required"})
		return
	}

	result, err := h.sessions.Start(c.Request.Context(), testID, pid)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// queryParticipantID reads ?participantId= with the cookie fallback.
func (h *SessionHandler) queryParticipantID(c *gin.Context) (uint, bool) {
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

func (h *SessionHandler) FetchQuestion(c *gin.Context) {
	testID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question index"})
		return
	}
	pid, ok := h.queryParticipantID(c)
	if !ok {
		return
	}

	result, err := h.delivery.FetchQuestion(c.Request.Context(), testID, pid, index)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type submitAnswerRequest struct {
	ParticipantID  uint   `json:"participantId"`
	QuestionID     uint   `json:"questionId" binding:"required"`
	SelectedOption string `json:"selectedOption" binding:"required"`
	TimeTaken      int    `json:"timeTaken"`
	IsAutomatic    bool   `json:"isAutomatic"`
}

func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	testID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid answer payload"})
		return
	}
	pid, ok := participantID(c, req.ParticipantID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "participantId is required"})
		return
	}

	result, err := h.intake.SubmitAnswer(c.Request.Context(), services.SubmitAnswerInput{
		TestID:         testID,
		ParticipantID:  pid,
		QuestionID:     req.QuestionID,
		SelectedOption: req.SelectedOption,
		TimeTaken:      req.TimeTaken,
		IsAutomatic:    req.IsAutomatic,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type sessionSignalRequest struct {
	ParticipantID uint `json:"participantId"`
}

func (h *SessionHandler) Heartbeat(c *gin.Context) {
	testID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req sessionSignalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid heartbeat payload"})
		return
	}
	pid, ok := participantID(c, req.ParticipantID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "participantId is required"})
		return
	}

	if err := h.sessions.Heartbeat(c.Request.Context(), testID, pid); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *SessionHandler) Abandon(c *gin.Context) {
	testID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req sessionSignalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid abandon payload"})
		return
	}
	pid, ok := participantID(c, req.ParticipantID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "participantId is required"})
		return
	}

	if err := h.sessions.Abandon(c.Request.Context(), testID, pid); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
