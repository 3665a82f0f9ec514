package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	intdb "viajes/internal/db"
	"viajes/internal/domain"
	"viajes/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

const tripColumns = `id, destino, fecha, precio, disponibilidad`

type TripRepository struct {
	DB *sqlx.DB
}

func (r TripRepository) Create(ctx context.Context, t models.NewTrip) (int64, error) {
	res, err := intdb.Conn(ctx, r.DB).ExecContext(ctx,
		`INSERT INTO viajes (destino, fecha, precio, disponibilidad) VALUES (?, ?, ?, ?)`,
		t.Destino, t.Fecha, t.Precio, t.Disponibilidad,
	)
	if err != nil {
		return 0, fmt.Errorf("insert viaje: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert viaje id: %w", err)
	}
	return id, nil
}

func (r TripRepository) GetByID(ctx context.Context, id int64) (models.Trip, error) {
	var t models.Trip
	err := sqlx.GetContext(ctx, intdb.Conn(ctx, r.DB), &t,
		`SELECT `+tripColumns+` FROM viajes WHERE id = ? LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Trip{}, domain.NotFoundError{Resource: "Viaje", Err: err}
		}
		return models.Trip{}, fmt.Errorf("get viaje: %w", err)
	}
	return t, nil
}

// List returns every trip in storage order.
func (r TripRepository) List(ctx context.Context) ([]models.Trip, error) {
	out := []models.Trip{}
	if err := sqlx.SelectContext(ctx, intdb.Conn(ctx, r.DB), &out,
		`SELECT `+tripColumns+` FROM viajes ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("list viajes: %w", err)
	}
	return out, nil
}

// Search applies the optional filters with AND semantics.
func (r TripRepository) Search(ctx context.Context, f domain.TripFilter) ([]models.Trip, error) {
	where := []string{"1=1"}
	args := []any{}

	if d := strings.TrimSpace(f.Destino); d != "" {
		where = append(where, `LOWER(destino) LIKE LOWER(?)`)
		args = append(args, "%"+escapeLike(d)+"%")
	}
	if fecha := strings.TrimSpace(f.Fecha); fecha != "" {
		where = append(where, "fecha = ?")
		args = append(args, fecha)
	}
	if f.MinPrecio != nil {
		where = append(where, "precio >= ?")
		args = append(args, *f.MinPrecio)
	}
	if f.MaxPrecio != nil {
		where = append(where, "precio <= ?")
		args = append(args, *f.MaxPrecio)
	}

	query := `SELECT ` + tripColumns + ` FROM viajes WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id ASC`

	out := []models.Trip{}
	if err := sqlx.SelectContext(ctx, intdb.Conn(ctx, r.DB), &out, query, args...); err != nil {
		return nil, fmt.Errorf("search viajes: %w", err)
	}
	return out, nil
}

// DecrementAvailability takes one seat if any is left. The conditional update
// is the serialization point for concurrent reservations: it reports false
// when the trip is missing or already at zero.
func (r TripRepository) DecrementAvailability(ctx context.Context, id int64) (bool, error) {
	res, err := intdb.Conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE viajes SET disponibilidad = disponibilidad - 1 WHERE id = ? AND disponibilidad > 0`, id)
	if err != nil {
		return false, fmt.Errorf("decrement disponibilidad: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("decrement disponibilidad rows: %w", err)
	}
	return n == 1, nil
}

func (r TripRepository) IncrementAvailability(ctx context.Context, id int64) error {
	res, err := intdb.Conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE viajes SET disponibilidad = disponibilidad + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("increment disponibilidad: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment disponibilidad rows: %w", err)
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "Viaje"}
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
