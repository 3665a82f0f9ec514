package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"viajes/internal/domain"
	"viajes/internal/domain/models"
	"viajes/internal/utils"
)

// matches the VARCHAR(100) columns of viajes
const maxTextLength = 100

// largest value DECIMAL(12,2) can hold
const maxPrice = 9999999999.99

type TripStore interface {
	Create(ctx context.Context, t models.NewTrip) (int64, error)
	List(ctx context.Context) ([]models.Trip, error)
	Search(ctx context.Context, f domain.TripFilter) ([]models.Trip, error)
}

// CreateTripInput holds the raw textual form of each field; an empty string
// means the field was absent, null or blank.
type CreateTripInput struct {
	Destino        string
	Fecha          string
	Precio         string
	Disponibilidad string
}

type CatalogService struct {
	Trips TripStore
}

func (s CatalogService) CreateTrip(ctx context.Context, in CreateTripInput) (int64, error) {
	destino := strings.TrimSpace(in.Destino)
	fecha := strings.TrimSpace(in.Fecha)
	precioRaw := strings.TrimSpace(in.Precio)
	dispRaw := strings.TrimSpace(in.Disponibilidad)

	if destino == "" || fecha == "" || precioRaw == "" || dispRaw == "" {
		return 0, domain.ValidationError{Msg: "Todos los campos son obligatorios"}
	}

	if utf8.RuneCountInString(destino) > maxTextLength || utf8.RuneCountInString(fecha) > maxTextLength {
		return 0, domain.ValidationError{Field: "destino", Msg: fmt.Sprintf("destino y fecha admiten como máximo %d caracteres", maxTextLength)}
	}

	precio, err := parsePrice(precioRaw)
	if err != nil {
		return 0, domain.ValidationError{Field: "precio", Msg: "El precio debe ser un número no negativo", Err: err}
	}
	disponibilidad, err := parseAvailability(dispRaw)
	if err != nil {
		return 0, domain.ValidationError{Field: "disponibilidad", Msg: "La disponibilidad debe ser un entero no negativo", Err: err}
	}

	id, err := s.Trips.Create(ctx, models.NewTrip{
		Destino:        destino,
		Fecha:          fecha,
		Precio:         precio,
		Disponibilidad: disponibilidad,
	})
	if err != nil {
		return 0, domain.InternalError{Msg: "create trip", Err: err}
	}

	utils.LogEvent(utils.RequestID(ctx), "catalog", "create_trip", fmt.Sprintf("trip_id=%d disponibilidad=%d", id, disponibilidad))
	return id, nil
}

func (s CatalogService) ListTrips(ctx context.Context) ([]models.Trip, error) {
	trips, err := s.Trips.List(ctx)
	if err != nil {
		return nil, domain.InternalError{Msg: "list trips", Err: err}
	}
	return escapeTrips(trips), nil
}

func (s CatalogService) SearchTrips(ctx context.Context, f domain.TripFilter) ([]models.Trip, error) {
	f.Destino = strings.TrimSpace(f.Destino)
	f.Fecha = strings.TrimSpace(f.Fecha)
	trips, err := s.Trips.Search(ctx, f)
	if err != nil {
		return nil, domain.InternalError{Msg: "search trips", Err: err}
	}
	return escapeTrips(trips), nil
}

func escapeTrips(trips []models.Trip) []models.Trip {
	out := make([]models.Trip, 0, len(trips))
	for _, t := range trips {
		t.Destino = utils.EscapeHTML(t.Destino)
		t.Fecha = utils.EscapeHTML(t.Fecha)
		out = append(out, t)
	}
	return out
}

func parsePrice(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > maxPrice {
		return 0, fmt.Errorf("precio out of range: %s", raw)
	}
	return v, nil
}

// parseAvailability accepts "3" and also "3.0", but not "3.5".
func parseAvailability(raw string) (int, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 || n > math.MaxInt32 {
			return 0, fmt.Errorf("disponibilidad out of range: %d", n)
		}
		return n, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, fmt.Errorf("disponibilidad not a non-negative integer: %s", raw)
	}
	return int(v), nil
}

// ParsePriceFilter returns nil for blank or unparseable query values.
func ParsePriceFilter(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
