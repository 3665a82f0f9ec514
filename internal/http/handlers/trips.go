package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"viajes/internal/domain"
	"viajes/internal/services"
)

// POST /crear_viaje
func (h Handler) CreateTrip(c *gin.Context) {
	var req createTripRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	id, err := h.Catalog.CreateTrip(c.Request.Context(), services.CreateTripInput{
		Destino:        req.Destino.String(),
		Fecha:          req.Fecha.String(),
		Precio:         req.Precio.String(),
		Disponibilidad: req.Disponibilidad.String(),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createdResponse{Mensaje: "Viaje creado exitosamente", ID: id})
}

// GET /viajes
func (h Handler) ListTrips(c *gin.Context) {
	trips, err := h.Catalog.ListTrips(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// GET /buscar_viajes?destino=&fecha=&min_precio=&max_precio=
func (h Handler) SearchTrips(c *gin.Context) {
	filter := domain.TripFilter{
		Destino:   c.Query("destino"),
		Fecha:     c.Query("fecha"),
		MinPrecio: services.ParsePriceFilter(c.Query("min_precio")),
		MaxPrecio: services.ParsePriceFilter(c.Query("max_precio")),
	}

	trips, err := h.Catalog.SearchTrips(c.Request.Context(), filter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}
