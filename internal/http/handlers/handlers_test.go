package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"viajes/internal/domain"
	"viajes/internal/domain/models"
	"viajes/internal/http/middleware"
	"viajes/internal/services"
)

type MockAccounts struct{ mock.Mock }

func (m *MockAccounts) Register(ctx context.Context, name, email, password string) (int64, error) {
	args := m.Called(name, email, password)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccounts) Authenticate(ctx context.Context, email, password string) (int64, error) {
	args := m.Called(email, password)
	return args.Get(0).(int64), args.Error(1)
}

type MockTokens struct{ mock.Mock }

func (m *MockTokens) Issue(userID int64) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockTokens) Verify(token string) (int64, error) {
	args := m.Called(token)
	return args.Get(0).(int64), args.Error(1)
}

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) CreateTrip(ctx context.Context, in services.CreateTripInput) (int64, error) {
	args := m.Called(in)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalog) ListTrips(ctx context.Context) ([]models.Trip, error) {
	args := m.Called()
	return args.Get(0).([]models.Trip), args.Error(1)
}

func (m *MockCatalog) SearchTrips(ctx context.Context, f domain.TripFilter) ([]models.Trip, error) {
	args := m.Called(f)
	return args.Get(0).([]models.Trip), args.Error(1)
}

type MockBookings struct{ mock.Mock }

func (m *MockBookings) Reserve(ctx context.Context, userID, tripID int64) (int64, error) {
	args := m.Called(userID, tripID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookings) Cancel(ctx context.Context, userID, reservationID int64) error {
	args := m.Called(userID, reservationID)
	return args.Error(0)
}

func (m *MockBookings) ListMine(ctx context.Context, userID int64) ([]models.ReservationDetail, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.ReservationDetail), args.Error(1)
}

type fixture struct {
	router   *gin.Engine
	accounts *MockAccounts
	tokens   *MockTokens
	catalog  *MockCatalog
	bookings *MockBookings
}

func setupRouter() fixture {
	gin.SetMode(gin.TestMode)
	f := fixture{
		accounts: new(MockAccounts),
		tokens:   new(MockTokens),
		catalog:  new(MockCatalog),
		bookings: new(MockBookings),
	}
	h := Handler{Accounts: f.accounts, Tokens: f.tokens, Catalog: f.catalog, Bookings: f.bookings}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.POST("/registro", h.Register)
	r.POST("/login", h.Login)
	r.GET("/viajes", h.ListTrips)
	r.GET("/buscar_viajes", h.SearchTrips)
	auth := r.Group("/", middleware.RequireAuth(f.tokens))
	auth.POST("/crear_viaje", h.CreateTrip)
	auth.POST("/reservar", h.Reserve)
	auth.DELETE("/cancelar_reserva/:id", h.Cancel)
	auth.GET("/mis_reservas", h.MyReservations)
	r.GET("/health", h.Health)
	r.GET("/db-check", h.DBCheck)

	f.tokens.On("Verify", "good").Return(int64(7), nil)
	f.router = r
	return f
}

func (f fixture) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer good")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRegister(t *testing.T) {
	f := setupRouter()
	f.accounts.On("Register", "Ana", "ana@example.com", "123456").Return(int64(1), nil)

	w := f.do(http.MethodPost, "/registro", `{"name":"Ana","email":"ana@example.com","password":"123456"}`, false)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Usuario registrado", decode(t, w)["mensaje"])
	f.accounts.AssertExpectations(t)
}

func TestRegisterErrors(t *testing.T) {
	f := setupRouter()
	f.accounts.On("Register", "", "bad", "123456").Return(int64(0), domain.ValidationError{Field: "email", Msg: "Formato de email inválido"})
	f.accounts.On("Register", "", "dup@example.com", "123456").Return(int64(0), domain.ConflictError{Msg: "El email ya está registrado"})

	w := f.do(http.MethodPost, "/registro", `{"email":"bad","password":"123456"}`, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Formato de email inválido", body["mensaje"])
	assert.NotEmpty(t, body["request_id"])

	w = f.do(http.MethodPost, "/registro", `{"email":"dup@example.com","password":"123456"}`, false)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(http.MethodPost, "/registro", `{not json`, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Solicitud incorrecta", decode(t, w)["mensaje"])
}

func TestLogin(t *testing.T) {
	f := setupRouter()
	f.accounts.On("Authenticate", "ana@example.com", "123456").Return(int64(7), nil)
	f.accounts.On("Authenticate", "ana@example.com", "nope").Return(int64(0), domain.AuthError{Msg: "Credenciales inválidas"})
	f.tokens.On("Issue", int64(7)).Return("signed-token", nil)

	w := f.do(http.MethodPost, "/login", `{"email":"ana@example.com","password":"123456"}`, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "signed-token", decode(t, w)["token"])

	w = f.do(http.MethodPost, "/login", `{"email":"ana@example.com","password":"nope"}`, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Credenciales inválidas", decode(t, w)["mensaje"])
}

func TestCreateTripRequiresToken(t *testing.T) {
	f := setupRouter()
	f.tokens.On("Verify", "bad").Return(int64(0), domain.AuthError{Msg: "Token inválido"})

	w := f.do(http.MethodPost, "/crear_viaje", `{"destino":"París"}`, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/crear_viaje", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token inválido", decode(t, rec)["mensaje"])

	f.catalog.AssertNotCalled(t, "CreateTrip", mock.Anything)
}

func TestCreateTripAcceptsNumbersAndStrings(t *testing.T) {
	f := setupRouter()
	f.catalog.On("CreateTrip", services.CreateTripInput{Destino: "París", Fecha: "2025-06-15", Precio: "500", Disponibilidad: "10"}).
		Return(int64(3), nil).Twice()

	w := f.do(http.MethodPost, "/crear_viaje", `{"destino":"París","fecha":"2025-06-15","precio":500,"disponibilidad":10}`, true)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(3), decode(t, w)["id"])

	w = f.do(http.MethodPost, "/crear_viaje", `{"destino":"París","fecha":"2025-06-15","precio":"500","disponibilidad":"10"}`, true)
	assert.Equal(t, http.StatusCreated, w.Code)
	f.catalog.AssertExpectations(t)
}

func TestSearchTripsParsesQuery(t *testing.T) {
	f := setupRouter()
	f.catalog.On("SearchTrips", mock.MatchedBy(func(filter domain.TripFilter) bool {
		return filter.Destino == "par" && filter.MinPrecio != nil && *filter.MinPrecio == 100 && filter.MaxPrecio == nil
	})).Return([]models.Trip{{ID: 1, Destino: "París", Fecha: "2025-06-15", Precio: 500, Disponibilidad: 10}}, nil)

	w := f.do(http.MethodGet, "/buscar_viajes?destino=par&min_precio=100&max_precio=abc", "", false)
	assert.Equal(t, http.StatusOK, w.Code)

	var trips []models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trips))
	require.Len(t, trips, 1)
	assert.Equal(t, "París", trips[0].Destino)
}

func TestListTripsInternalErrorIsGeneric(t *testing.T) {
	f := setupRouter()
	f.catalog.On("ListTrips").Return([]models.Trip(nil), domain.InternalError{Msg: "list trips", Err: errors.New("dial tcp 10.0.0.1:3306")})

	w := f.do(http.MethodGet, "/viajes", "", false)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error interno del servidor", decode(t, w)["mensaje"])
	assert.NotContains(t, w.Body.String(), "dial tcp")
}

func TestReserve(t *testing.T) {
	f := setupRouter()
	f.bookings.On("Reserve", int64(7), int64(1)).Return(int64(11), nil)
	f.bookings.On("Reserve", int64(7), int64(2)).Return(int64(0), domain.CapacityError{TripID: 2})
	f.bookings.On("Reserve", int64(7), int64(99)).Return(int64(0), domain.NotFoundError{Resource: "Viaje"})

	w := f.do(http.MethodPost, "/reservar", `{"viaje_id":1}`, true)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(11), decode(t, w)["id"])

	w = f.do(http.MethodPost, "/reservar", `{"viaje_id":"2"}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Viaje no disponible", decode(t, w)["mensaje"])

	w = f.do(http.MethodPost, "/reservar", `{"viaje_id":99}`, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Viaje no encontrado", decode(t, w)["mensaje"])

	for _, body := range []string{`{"viaje_id":"abc"}`, `{"viaje_id":0}`, `{"viaje_id":-4}`, `{"viaje_id":1.5}`, `{}`} {
		w = f.do(http.MethodPost, "/reservar", body, true)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "ID de viaje inválido", decode(t, w)["mensaje"], body)
	}
}

func TestCancel(t *testing.T) {
	f := setupRouter()
	f.bookings.On("Cancel", int64(7), int64(5)).Return(nil)
	f.bookings.On("Cancel", int64(7), int64(6)).Return(domain.ForbiddenError{Msg: "No puedes cancelar esta reserva"})
	f.bookings.On("Cancel", int64(7), int64(8)).Return(domain.NotFoundError{Msg: "Reserva no encontrada"})

	w := f.do(http.MethodDelete, "/cancelar_reserva/5", "", true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodDelete, "/cancelar_reserva/6", "", true)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "No puedes cancelar esta reserva", decode(t, w)["mensaje"])

	w = f.do(http.MethodDelete, "/cancelar_reserva/8", "", true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodDelete, "/cancelar_reserva/abc", "", true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMyReservations(t *testing.T) {
	f := setupRouter()
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	f.bookings.On("ListMine", int64(7)).Return([]models.ReservationDetail{
		{ID: 4, UsuarioID: 7, ViajeID: 1, Destino: "París", Fecha: "2025-06-15", Estado: "Reservado", CreatedAt: created},
	}, nil).Once()
	f.bookings.On("ListMine", int64(7)).Return([]models.ReservationDetail(nil), domain.NotFoundError{Msg: "No tienes reservas"}).Once()

	w := f.do(http.MethodGet, "/mis_reservas", "", true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":4,"viaje_id":1,"viaje":"París","destino":"París","fecha":"2025-06-15","estado":"Reservado","creado_en":"2025-06-01T10:00:00Z"}]`, w.Body.String())

	w = f.do(http.MethodGet, "/mis_reservas", "", true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No tienes reservas", decode(t, w)["mensaje"])
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func TestSystemEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	up := Handler{DB: stubPinger{}}
	down := Handler{DB: stubPinger{err: errors.New("refused")}}
	r.GET("/health", up.Health)
	r.GET("/up", up.DBCheck)
	r.GET("/down", down.DBCheck)
	r.GET("/none", Handler{}.DBCheck)

	for path, want := range map[string]int{"/health": 200, "/up": 200, "/down": 500, "/none": 500} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}

func TestParsePositiveID(t *testing.T) {
	cases := map[string]bool{"1": true, "3.0": true, "0": false, "-2": false, "1.5": false, "x": false, "": false}
	for in, ok := range cases {
		_, got := parsePositiveID(in)
		assert.Equal(t, ok, got, in)
	}
}
