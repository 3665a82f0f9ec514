package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"viajes/internal/domain"
	"viajes/internal/domain/models"
	"viajes/internal/notifications"
)

type fakeTx struct{}

func (fakeTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	byMail map[string]models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byMail: map[string]models.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u models.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, ok := f.byMail[key]; ok {
		return 0, domain.ConflictError{Resource: "email", Msg: "El email ya está registrado"}
	}
	f.nextID++
	u.ID = f.nextID
	f.byMail[key] = u
	return u.ID, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byMail[strings.ToLower(email)]
	if !ok {
		return models.User{}, domain.NotFoundError{Resource: "Usuario"}
	}
	return u, nil
}

func (f *fakeUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byMail[strings.ToLower(email)]
	return ok, nil
}

// fakeTrips decrements under a mutex, matching the conditional UPDATE.
type fakeTrips struct {
	mu     sync.Mutex
	nextID int64
	trips  map[int64]models.Trip
}

func newFakeTrips(trips ...models.Trip) *fakeTrips {
	f := &fakeTrips{trips: map[int64]models.Trip{}}
	for _, t := range trips {
		f.trips[t.ID] = t
		if t.ID > f.nextID {
			f.nextID = t.ID
		}
	}
	return f
}

func (f *fakeTrips) Create(_ context.Context, t models.NewTrip) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.trips[f.nextID] = models.Trip{ID: f.nextID, Destino: t.Destino, Fecha: t.Fecha, Precio: t.Precio, Disponibilidad: t.Disponibilidad}
	return f.nextID, nil
}

func (f *fakeTrips) List(_ context.Context) ([]models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Trip, 0, len(f.trips))
	for _, t := range f.trips {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTrips) Search(ctx context.Context, filter domain.TripFilter) ([]models.Trip, error) {
	all, _ := f.List(ctx)
	out := []models.Trip{}
	for _, t := range all {
		if filter.Destino != "" && !strings.Contains(strings.ToLower(t.Destino), strings.ToLower(filter.Destino)) {
			continue
		}
		if filter.Fecha != "" && t.Fecha != filter.Fecha {
			continue
		}
		if filter.MinPrecio != nil && t.Precio < *filter.MinPrecio {
			continue
		}
		if filter.MaxPrecio != nil && t.Precio > *filter.MaxPrecio {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTrips) GetByID(_ context.Context, id int64) (models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.trips[id]
	if !ok {
		return models.Trip{}, domain.NotFoundError{Resource: "Viaje"}
	}
	return t, nil
}

func (f *fakeTrips) DecrementAvailability(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.trips[id]
	if !ok || t.Disponibilidad <= 0 {
		return false, nil
	}
	t.Disponibilidad--
	f.trips[id] = t
	return true, nil
}

func (f *fakeTrips) IncrementAvailability(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.trips[id]
	if !ok {
		return domain.NotFoundError{Resource: "Viaje"}
	}
	t.Disponibilidad++
	f.trips[id] = t
	return nil
}

func (f *fakeTrips) availability(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.trips[id].Disponibilidad
}

type reservationRow struct {
	ID        int64
	UsuarioID int64
	ViajeID   int64
	Estado    string
	CreatedAt time.Time
}

type fakeReservations struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]reservationRow
	trips  *fakeTrips
}

func newFakeReservations(trips *fakeTrips) *fakeReservations {
	return &fakeReservations{rows: map[int64]reservationRow{}, trips: trips}
}

func (f *fakeReservations) Create(_ context.Context, userID, tripID int64, status domain.Status) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.rows[f.nextID] = reservationRow{ID: f.nextID, UsuarioID: userID, ViajeID: tripID, Estado: string(status), CreatedAt: time.Now()}
	return f.nextID, nil
}

func (f *fakeReservations) detail(r reservationRow) models.ReservationDetail {
	trip, _ := f.trips.GetByID(context.Background(), r.ViajeID)
	return models.ReservationDetail{
		ID:           r.ID,
		UsuarioID:    r.UsuarioID,
		UsuarioEmail: "user@example.com",
		ViajeID:      r.ViajeID,
		Destino:      trip.Destino,
		Fecha:        trip.Fecha,
		Estado:       r.Estado,
		CreatedAt:    r.CreatedAt,
	}
}

func (f *fakeReservations) GetDetail(_ context.Context, id int64) (models.ReservationDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return models.ReservationDetail{}, domain.NotFoundError{Resource: "Reserva", Msg: "Reserva no encontrada"}
	}
	return f.detail(r), nil
}

func (f *fakeReservations) GetDetailForUpdate(ctx context.Context, id int64) (models.ReservationDetail, error) {
	return f.GetDetail(ctx, id)
}

func (f *fakeReservations) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return domain.NotFoundError{Resource: "Reserva", Msg: "Reserva no encontrada"}
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeReservations) ListDetailsByUser(_ context.Context, userID int64) ([]models.ReservationDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.ReservationDetail{}
	for _, r := range f.rows {
		if r.UsuarioID == userID {
			out = append(out, f.detail(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notifications.Event
}

func (f *fakeNotifier) Notify(evt notifications.Event) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return true
}

func (f *fakeNotifier) kinds() []notifications.Kind {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []notifications.Kind{}
	for _, e := range f.events {
		out = append(out, e.Kind)
	}
	return out
}
