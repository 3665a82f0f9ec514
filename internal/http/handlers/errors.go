package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"viajes/internal/domain"
	"viajes/internal/http/middleware"
	"viajes/internal/utils"
)

const internalErrorMessage = "Error interno del servidor"

// RespondError sends the standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"mensaje":    message,
		"request_id": middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. Unknown errors are
// logged with the request id and answered with a generic 500.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		RespondError(c, http.StatusBadRequest, err.Error())
	case domain.IsAuth(err):
		RespondError(c, http.StatusUnauthorized, err.Error())
	case domain.IsForbidden(err):
		RespondError(c, http.StatusForbidden, err.Error())
	case domain.IsNotFound(err):
		RespondError(c, http.StatusNotFound, err.Error())
	case domain.IsConflict(err):
		RespondError(c, http.StatusConflict, err.Error())
	case domain.IsCapacity(err):
		RespondError(c, http.StatusBadRequest, err.Error())
	default:
		utils.LogEvent(middleware.GetRequestID(c), "http", "internal_error", err.Error())
		RespondError(c, http.StatusInternalServerError, internalErrorMessage)
	}
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		RespondError(c, http.StatusBadRequest, "Solicitud incorrecta")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "Solicitud incorrecta")
		return false
	}
	return true
}
