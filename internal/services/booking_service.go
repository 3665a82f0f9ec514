package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"viajes/internal/domain"
	"viajes/internal/domain/models"
	"viajes/internal/notifications"
	"viajes/internal/utils"
)

type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type BookingTrips interface {
	GetByID(ctx context.Context, id int64) (models.Trip, error)
	DecrementAvailability(ctx context.Context, id int64) (bool, error)
	IncrementAvailability(ctx context.Context, id int64) error
}

type BookingReservations interface {
	Create(ctx context.Context, userID, tripID int64, status domain.Status) (int64, error)
	GetDetail(ctx context.Context, id int64) (models.ReservationDetail, error)
	GetDetailForUpdate(ctx context.Context, id int64) (models.ReservationDetail, error)
	Delete(ctx context.Context, id int64) error
	ListDetailsByUser(ctx context.Context, userID int64) ([]models.ReservationDetail, error)
}

type Notifier interface {
	Notify(evt notifications.Event) bool
}

// BookingService reserves and cancels seats. Availability changes and the
// reservation row always commit together.
type BookingService struct {
	Tx           TxRunner
	Trips        BookingTrips
	Reservations BookingReservations
	Notifier     Notifier
	Now          func() time.Time
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s BookingService) Reserve(ctx context.Context, userID, tripID int64) (int64, error) {
	reqID := utils.RequestID(ctx)
	if tripID <= 0 {
		return 0, domain.ValidationError{Field: "viaje_id", Msg: "ID de viaje inválido"}
	}

	var reservationID int64
	err := s.Tx.WithTx(ctx, func(ctx context.Context) error {
		ok, err := s.Trips.DecrementAvailability(ctx, tripID)
		if err != nil {
			return err
		}
		if !ok {
			if _, err := s.Trips.GetByID(ctx, tripID); err != nil {
				return err
			}
			return domain.CapacityError{TripID: tripID}
		}

		reservationID, err = s.Reservations.Create(ctx, userID, tripID, domain.StatusReserved)
		return err
	})
	if err != nil {
		if domain.IsCapacity(err) {
			utils.LogEvent(reqID, "booking", "reserve_rejected", fmt.Sprintf("trip_id=%d reason=sold_out", tripID))
		}
		return 0, asDomainError(err, "reserve")
	}

	utils.LogEvent(reqID, "booking", "reserve", fmt.Sprintf("reservation_id=%d trip_id=%d user_id=%d", reservationID, tripID, userID))

	if s.Notifier != nil {
		detail, err := s.Reservations.GetDetail(ctx, reservationID)
		if err != nil {
			utils.LogEvent(reqID, "booking", "notify_skipped", fmt.Sprintf("reservation_id=%d err=%v", reservationID, err))
		} else {
			s.Notifier.Notify(s.event(notifications.KindReserva, detail))
		}
	}
	return reservationID, nil
}

func (s BookingService) Cancel(ctx context.Context, userID, reservationID int64) error {
	reqID := utils.RequestID(ctx)
	if reservationID <= 0 {
		return domain.ValidationError{Field: "id", Msg: "ID de reserva inválido"}
	}

	var detail models.ReservationDetail
	err := s.Tx.WithTx(ctx, func(ctx context.Context) error {
		d, err := s.Reservations.GetDetailForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if d.UsuarioID != userID {
			return domain.ForbiddenError{Msg: "No puedes cancelar esta reserva"}
		}
		if err := s.Trips.IncrementAvailability(ctx, d.ViajeID); err != nil {
			return err
		}
		if err := s.Reservations.Delete(ctx, d.ID); err != nil {
			return err
		}
		detail = d
		return nil
	})
	if err != nil {
		if domain.IsForbidden(err) {
			utils.LogEvent(reqID, "booking", "cancel_rejected", fmt.Sprintf("reservation_id=%d user_id=%d reason=not_owner", reservationID, userID))
		}
		return asDomainError(err, "cancel")
	}

	utils.LogEvent(reqID, "booking", "cancel", fmt.Sprintf("reservation_id=%d trip_id=%d user_id=%d", reservationID, detail.ViajeID, userID))

	if s.Notifier != nil {
		s.Notifier.Notify(s.event(notifications.KindCancelacion, detail))
	}
	return nil
}

// ListMine returns the caller's reservations with text fields HTML-escaped.
// An empty result is reported as NotFoundError.
func (s BookingService) ListMine(ctx context.Context, userID int64) ([]models.ReservationDetail, error) {
	rows, err := s.Reservations.ListDetailsByUser(ctx, userID)
	if err != nil {
		return nil, domain.InternalError{Msg: "list reservations", Err: err}
	}
	if len(rows) == 0 {
		return nil, domain.NotFoundError{Resource: "Reserva", Msg: "No tienes reservas"}
	}

	out := make([]models.ReservationDetail, 0, len(rows))
	for _, r := range rows {
		r.Destino = utils.EscapeHTML(r.Destino)
		r.Fecha = utils.EscapeHTML(r.Fecha)
		r.UsuarioNombre = utils.EscapeHTML(r.UsuarioNombre)
		out = append(out, r)
	}
	return out, nil
}

func (s BookingService) event(kind notifications.Kind, d models.ReservationDetail) notifications.Event {
	return notifications.Event{
		Kind:          kind,
		ReservationID: d.ID,
		UserID:        d.UsuarioID,
		UserName:      d.UsuarioNombre,
		UserEmail:     d.UsuarioEmail,
		TripID:        d.ViajeID,
		Destino:       d.Destino,
		Fecha:         d.Fecha,
		Precio:        d.Precio,
		OccurredAt:    s.now(),
	}
}

// asDomainError passes typed domain errors through and wraps anything else
// (driver, network) as InternalError.
func asDomainError(err error, op string) error {
	var (
		notFound  domain.NotFoundError
		invalid   domain.ValidationError
		conflict  domain.ConflictError
		unauth    domain.AuthError
		forbidden domain.ForbiddenError
		soldOut   domain.CapacityError
		internal  domain.InternalError
	)
	switch {
	case errors.As(err, &notFound):
		return notFound
	case errors.As(err, &invalid):
		return invalid
	case errors.As(err, &conflict):
		return conflict
	case errors.As(err, &unauth):
		return unauth
	case errors.As(err, &forbidden):
		return forbidden
	case errors.As(err, &soldOut):
		return soldOut
	case errors.As(err, &internal):
		return internal
	default:
		return domain.InternalError{Msg: op, Err: err}
	}
}
