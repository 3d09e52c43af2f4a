package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srgjo27/house_rental/internal/core/domain"
	"github.com/srgjo27/house_rental/internal/platform/logger"
)

func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeUnauthorized:
		return http.StatusForbidden
	case domain.CodeInvalidState, domain.CodeConflict:
		return http.StatusConflict
	case domain.CodeInvalidTransition:
		return http.StatusUnprocessableEntity
	case domain.CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err. committed is the entity that was written before a
// recoverable inconsistency, and is returned so the caller can see it.
func writeError(c *gin.Context, log logger.Logger, err error, committed interface{}) {
	code := domain.CodeOf(err)

	switch code {
	case "":
		log.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	case domain.CodeRecoverableInconsistency:
		body := gin.H{"code": code, "error": err.Error()}
		if committed != nil {
			body["data"] = committed
		}
		c.JSON(http.StatusInternalServerError, body)
	default:
		c.JSON(statusFor(code), gin.H{"code": code, "error": err.Error()})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"code": domain.CodeValidation, "error": "invalid json body: " + err.Error()})
}
