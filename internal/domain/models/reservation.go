package models

import "time"

// ReservationDetail is the joined read model (reservas + viajes + usuarios)
// used for listings and receipts.
type ReservationDetail struct {
	ID            int64     `db:"id"`
	UsuarioID     int64     `db:"usuario_id"`
	UsuarioNombre string    `db:"usuario_nombre"`
	UsuarioEmail  string    `db:"usuario_email"`
	ViajeID       int64     `db:"viaje_id"`
	Destino       string    `db:"destino"`
	Fecha         string    `db:"fecha"`
	Precio        float64   `db:"precio"`
	Estado        string    `db:"estado"`
	CreatedAt     time.Time `db:"created_at"`
}
