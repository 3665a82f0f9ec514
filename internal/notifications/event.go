package notifications

import (
	"context"
	"fmt"
	"time"
)

type Kind string

const (
	KindReserva     Kind = "reserva"
	KindCancelacion Kind = "cancelación"
)

// Event describes a committed reservation change.
type Event struct {
	Kind          Kind
	ReservationID int64
	UserID        int64
	UserName      string
	UserEmail     string
	TripID        int64
	Destino       string
	Fecha         string
	Precio        float64
	OccurredAt    time.Time
}

// Receipt is the rendered PDF for an event. Path is empty when it was not persisted.
type Receipt struct {
	Filename string
	Path     string
	PDF      []byte
}

type ReceiptRenderer interface {
	Render(evt Event) ([]byte, string, error)
}

type Sender interface {
	Name() string
	Send(ctx context.Context, evt Event, receipt Receipt) error
}

func Subject(kind Kind) string {
	return fmt.Sprintf("Comprobante de %s", kind)
}

func Body(evt Event) string {
	name := evt.UserName
	if name == "" {
		name = evt.UserEmail
	}
	return fmt.Sprintf("Hola %s,\n\nAdjunto encontrarás el comprobante de tu %s.\n\nGracias por usar Viajes Seguros S.A.", name, evt.Kind)
}

// RoutingKey maps an event kind to its topic on the exchange.
func RoutingKey(kind Kind) string {
	switch kind {
	case KindReserva:
		return "reserva.creada"
	case KindCancelacion:
		return "reserva.cancelada"
	default:
		return "reserva.otro"
	}
}
