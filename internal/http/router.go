package api

import (
	"log"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	intconfig "viajes/internal/config"
	h "viajes/internal/http/handlers"
	"viajes/internal/http/middleware"
)

func NewRouter(env intconfig.Env, handler h.Handler, tokens middleware.TokenVerifier) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		h.RespondError(c, stdhttp.StatusNotFound, "Recurso no encontrado")
	})

	r.GET("/health", handler.Health)
	r.GET("/db-check", handler.DBCheck)

	// Public
	r.POST("/registro", handler.Register)
	r.POST("/login", handler.Login)
	r.GET("/viajes", handler.ListTrips)
	r.GET("/buscar_viajes", handler.SearchTrips)

	// Bearer token required
	auth := r.Group("/", middleware.RequireAuth(tokens))
	{
		auth.POST("/crear_viaje", handler.CreateTrip)
		auth.POST("/reservar", handler.Reserve)
		auth.DELETE("/cancelar_reserva/:id", handler.Cancel)
		auth.GET("/mis_reservas", handler.MyReservations)
	}

	return r
}
