package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"viajes/internal/http/middleware"
	"viajes/internal/utils"
)

func (h Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "mensaje": "servicio en funcionamiento"})
}

func (h Handler) DBCheck(c *gin.Context) {
	if h.DB == nil {
		RespondError(c, http.StatusInternalServerError, "Base de datos no conectada")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		utils.LogEvent(middleware.GetRequestID(c), "http", "db_check_failed", err.Error())
		RespondError(c, http.StatusInternalServerError, "Error al conectar con la base de datos")
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "Conexión a la base de datos OK"})
}
