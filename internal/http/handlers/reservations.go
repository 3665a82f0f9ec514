package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"viajes/internal/http/middleware"
)

// POST /reservar
func (h Handler) Reserve(c *gin.Context) {
	var req reserveRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	tripID, ok := parsePositiveID(req.ViajeID.String())
	if !ok {
		RespondError(c, http.StatusBadRequest, "ID de viaje inválido")
		return
	}

	id, err := h.Bookings.Reserve(c.Request.Context(), middleware.UserID(c), tripID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createdResponse{Mensaje: "Reserva exitosa. Se envió el comprobante al correo.", ID: id})
}

// DELETE /cancelar_reserva/:id
func (h Handler) Cancel(c *gin.Context) {
	id, ok := parsePositiveID(c.Param("id"))
	if !ok {
		RespondError(c, http.StatusBadRequest, "ID de reserva inválido")
		return
	}

	if err := h.Bookings.Cancel(c.Request.Context(), middleware.UserID(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensaje": "Reserva cancelada. Se envió el comprobante al correo."})
}

// GET /mis_reservas
func (h Handler) MyReservations(c *gin.Context) {
	rows, err := h.Bookings.ListMine(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	out := make([]reservationResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, reservationResponse{
			ID:       r.ID,
			ViajeID:  r.ViajeID,
			Viaje:    r.Destino,
			Destino:  r.Destino,
			Fecha:    r.Fecha,
			Estado:   r.Estado,
			CreadoEn: r.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, out)
}

// parsePositiveID accepts "3" and "3.0" style values.
func parsePositiveID(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return id, id > 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int64(f)) || f <= 0 {
		return 0, false
	}
	return int64(f), true
}
