package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Broker publishes reservation events to a durable topic exchange.
type Broker struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	url      string
}

// EventMessage is the JSON body published for every event.
type EventMessage struct {
	Tipo        string    `json:"tipo"`
	ReservaID   int64     `json:"reserva_id"`
	UsuarioID   int64     `json:"usuario_id"`
	Email       string    `json:"email"`
	ViajeID     int64     `json:"viaje_id"`
	Destino     string    `json:"destino"`
	Fecha       string    `json:"fecha"`
	Precio      float64   `json:"precio"`
	Comprobante string    `json:"comprobante,omitempty"`
	OcurridoEn  time.Time `json:"ocurrido_en"`
}

func NewEventMessage(evt Event, receipt Receipt) EventMessage {
	return EventMessage{
		Tipo:        string(evt.Kind),
		ReservaID:   evt.ReservationID,
		UsuarioID:   evt.UserID,
		Email:       evt.UserEmail,
		ViajeID:     evt.TripID,
		Destino:     evt.Destino,
		Fecha:       evt.Fecha,
		Precio:      evt.Precio,
		Comprobante: receipt.Filename,
		OcurridoEn:  evt.OccurredAt,
	}
}

func NewBroker(rabbitMQURL, exchange string) (*Broker, error) {
	b := &Broker{exchange: exchange, url: rabbitMQURL}
	if err := b.connect(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Broker) connect() error {
	conn, err := amqp.Dial(b.url)
	if err != nil {
		log.Printf("Failed to connect to RabbitMQ: %v", err)
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("Failed to open channel: %v", err)
		conn.Close()
		return err
	}

	err = ch.ExchangeDeclare(
		b.exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Printf("Failed to declare exchange: %v", err)
		ch.Close()
		conn.Close()
		return err
	}

	b.conn = conn
	b.channel = ch
	return nil
}

func (b *Broker) ensureConnection() error {
	if b.conn == nil || b.conn.IsClosed() || b.channel == nil || b.channel.IsClosed() {
		if b.conn != nil && !b.conn.IsClosed() {
			b.conn.Close()
		}
		return b.connect()
	}
	return nil
}

// Publish sends message as JSON under the given routing key.
func (b *Broker) Publish(ctx context.Context, key string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ensureConnection(); err != nil {
		return err
	}

	err = b.channel.PublishWithContext(ctx,
		b.exchange,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}
	return nil
}

func (b *Broker) Name() string { return "rabbitmq" }

func (b *Broker) Send(ctx context.Context, evt Event, receipt Receipt) error {
	return b.Publish(ctx, RoutingKey(evt.Kind), NewEventMessage(evt, receipt))
}

func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.channel != nil {
		if err := b.channel.Close(); err != nil {
			log.Printf("Failed to close channel: %v", err)
			return err
		}
	}
	if b.conn != nil {
		if err := b.conn.Close(); err != nil {
			log.Printf("Failed to close connection: %v", err)
			return err
		}
	}
	return nil
}
