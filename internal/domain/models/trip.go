package models

// Trip is a bookable offering. Fecha is an opaque string, never parsed.
type Trip struct {
	ID             int64   `db:"id" json:"id"`
	Destino        string  `db:"destino" json:"destino"`
	Fecha          string  `db:"fecha" json:"fecha"`
	Precio         float64 `db:"precio" json:"precio"`
	Disponibilidad int     `db:"disponibilidad" json:"disponibilidad"`
}

// NewTrip carries validated input for trip creation.
type NewTrip struct {
	Destino        string
	Fecha          string
	Precio         float64
	Disponibilidad int
}
