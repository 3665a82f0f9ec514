package handlers

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Stringish accepts a JSON string, number or bool and keeps its textual form.
// null becomes "".
type Stringish string

func (s *Stringish) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case string(b) == "null" || len(b) == 0:
		*s = ""
		return nil
	case len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"':
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Stringish(str)
		return nil
	default:
		// number/bool/object -> stringify best-effort
		*s = Stringish(strings.Trim(string(b), `"`))
		return nil
	}
}

func (s Stringish) String() string { return strings.TrimSpace(string(s)) }

type registerRequest struct {
	Nombre   Stringish `json:"nombre"`
	Name     Stringish `json:"name"`
	Email    Stringish `json:"email"`
	Password Stringish `json:"password"`
}

func (r registerRequest) displayName() string {
	if n := r.Nombre.String(); n != "" {
		return n
	}
	return r.Name.String()
}

type loginRequest struct {
	Email    Stringish `json:"email"`
	Password Stringish `json:"password"`
}

type createTripRequest struct {
	Destino        Stringish `json:"destino"`
	Fecha          Stringish `json:"fecha"`
	Precio         Stringish `json:"precio"`
	Disponibilidad Stringish `json:"disponibilidad"`
}

type reserveRequest struct {
	ViajeID Stringish `json:"viaje_id"`
}

type createdResponse struct {
	Mensaje string `json:"mensaje"`
	ID      int64  `json:"id"`
}

type reservationResponse struct {
	ID       int64  `json:"id"`
	ViajeID  int64  `json:"viaje_id"`
	Viaje    string `json:"viaje"`
	Destino  string `json:"destino"`
	Fecha    string `json:"fecha"`
	Estado   string `json:"estado"`
	CreadoEn string `json:"creado_en"`
}
