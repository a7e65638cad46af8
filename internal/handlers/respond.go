package handlers

import (
	"net/http"
	"strconv"

	"github.com/Harshad932/Infinova-sub000/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusForKind maps the error taxonomy onto HTTP statuses.
func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindExpired:
		return http.StatusGone
	case apperr.KindPrecondition:
		return http.StatusUnprocessableEntity
	case apperr.KindRateLimit:
		return http.StatusTooManyRequests
	case apperr.KindExhausted:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a classified error with its caller-facing message.
// Unclassified errors are infrastructure failures: logged in full,
// surfaced opaquely.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindUnknown {
		log.Error("Unexpected error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(statusForKind(kind), gin.H{
		"error": apperr.Message(err),
		"kind":  kind.String(),
	})
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(v), true
}
