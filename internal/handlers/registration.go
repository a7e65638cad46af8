package handlers

import (
	"net/http"

	"github.com/Harshad932/Infinova-sub000/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// participantIDKey is the cookie-session key holding the flow
// continuation after a successful registration, so steps 2 and 3 keep
// working across a disconnect even if the client lost the id.
const participantIDKey = "participantID"

type RegistrationHandler struct {
	log *zap.Logger
	svc *services.RegistrationService
}

func NewRegistrationHandler(log *zap.Logger, svc *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{log: log, svc: svc}
}

type registerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required,phone"`
}

func (h *RegistrationHandler) Register(c *gin.Context) {
	testID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration payload"})
		return
	}

	result, err := h.svc.Register(c.Request.Context(), services.RegisterInput{
		TestID: testID,
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	session := sessions.Default(c)
	session.Set(participantIDKey, result.ParticipantID)
	if err := session.Save(); err != nil {
		h.log.Warn("Failed to save flow session cookie", zap.Error(err))
	}

	c.JSON(http.StatusOK, result)
}

// participantID resolves the flow continuation: explicit value first,
// cookie session as the reconnect fallback.
func participantID(c *gin.Context, explicit uint) (uint, bool) {
	if explicit != 0 {
		return explicit, true
	}
	session := sessions.Default(c)
	if v, ok := session.Get(participantIDKey).(uint); ok && v != 0 {
		return v, true
	}
	return 0, false
}

type verifyPasscodeRequest struct {
	ParticipantID uint   `json:"participantId"`
	Email         string `json:"email" binding:"required,email"`
	Code          string `json:"code" binding:"required"`
}

func (h *RegistrationHandler) VerifyPasscode(c *gin.Context) {
	var req verifyPasscodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid verification payload"})
		return
	}
	pid, ok := participantID(c, req.ParticipantID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "participantId is required"})
		return
	}

	err := h.svc.VerifyPasscode(c.Request.Context(), services.VerifyPasscodeInput{
		ParticipantID: pid,
		Email:         req.Email,
		Code:          req.Code,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true})
}

type resendPasscodeRequest struct {
	ParticipantID uint   `json:"participantId"`
	Email         string `json:"email" binding:"required,email"`
}

func (h *RegistrationHandler) ResendPasscode(c *gin.Context) {
	var req resendPasscodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resend payload"})
		return
	}
	pid, ok := participantID(c, req.ParticipantID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "participantId is required"})
		return
	}

	if err := h.svc.ResendPasscode(c.Request.Context(), pid, req.Email); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true})
}

type verifyJoinCodeRequest struct {
	ParticipantID uint   `json:"participantId"`
	Code          string `json:"code" binding:"required"`
}

func (h *RegistrationHandler) VerifyJoinCode(c *gin.Context) {
	testID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req verifyJoinCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid join code payload"})
		return
	}
	pid, ok := participantID(c, req.ParticipantID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "participantId is required"})
		return
	}

	result, err := h.svc.VerifyJoinCode(c.Request.Context(), services.VerifyJoinCodeInput{
		TestID:        testID,
		ParticipantID: pid,
		Code:          req.Code,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
