package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"viajes/internal/utils"
)

// Recovery turns a panic into the standard JSON 500 body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		utils.LogEvent(GetRequestID(c), "http", "panic", fmt.Sprintf("method=%s path=%s panic=%s", c.Request.Method, c.Request.URL.Path, fmt.Sprint(recovered)))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"mensaje":    "Error interno del servidor",
			"request_id": GetRequestID(c),
		})
	})
}
