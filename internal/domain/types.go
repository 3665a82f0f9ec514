package domain

// Status is the lifecycle value stored on a reservation row.
type Status string

// StatusReserved is the only persisted status; a cancelled reservation is deleted.
const StatusReserved Status = "Reservado"

// TripFilter carries the optional search criteria; nil/empty fields are ignored.
type TripFilter struct {
	Destino   string
	Fecha     string
	MinPrecio *float64
	MaxPrecio *float64
}
