package handlers

import (
	"context"

	"viajes/internal/domain"
	"viajes/internal/domain/models"
	"viajes/internal/services"
)

type Accounts interface {
	Register(ctx context.Context, name, email, password string) (int64, error)
	Authenticate(ctx context.Context, email, password string) (int64, error)
}

type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

type Catalog interface {
	CreateTrip(ctx context.Context, in services.CreateTripInput) (int64, error)
	ListTrips(ctx context.Context) ([]models.Trip, error)
	SearchTrips(ctx context.Context, f domain.TripFilter) ([]models.Trip, error)
}

type Bookings interface {
	Reserve(ctx context.Context, userID, tripID int64) (int64, error)
	Cancel(ctx context.Context, userID, reservationID int64) error
	ListMine(ctx context.Context, userID int64) ([]models.ReservationDetail, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler holds the services behind every route.
type Handler struct {
	Accounts Accounts
	Tokens   TokenIssuer
	Catalog  Catalog
	Bookings Bookings
	DB       Pinger
}
