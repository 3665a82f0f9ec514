package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intdb "viajes/internal/db"
	"viajes/internal/domain"
	"viajes/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

const reservationDetailSelect = `
	SELECT
		r.id,
		r.usuario_id,
		u.nombre AS usuario_nombre,
		u.email AS usuario_email,
		r.viaje_id,
		v.destino,
		v.fecha,
		v.precio,
		r.estado,
		r.created_at
	FROM reservas r
	JOIN viajes v ON v.id = r.viaje_id
	JOIN usuarios u ON u.id = r.usuario_id`

type ReservationRepository struct {
	DB *sqlx.DB
}

func (r ReservationRepository) Create(ctx context.Context, userID, tripID int64, status domain.Status) (int64, error) {
	res, err := intdb.Conn(ctx, r.DB).ExecContext(ctx,
		`INSERT INTO reservas (usuario_id, viaje_id, estado) VALUES (?, ?, ?)`,
		userID, tripID, string(status),
	)
	if err != nil {
		return 0, fmt.Errorf("insert reserva: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert reserva id: %w", err)
	}
	return id, nil
}

func (r ReservationRepository) GetDetail(ctx context.Context, id int64) (models.ReservationDetail, error) {
	return r.getDetail(ctx, reservationDetailSelect+` WHERE r.id = ? LIMIT 1`, id)
}

// GetDetailForUpdate locks the reservation row until the surrounding
// transaction ends, so two cancellations of the same row cannot both succeed.
func (r ReservationRepository) GetDetailForUpdate(ctx context.Context, id int64) (models.ReservationDetail, error) {
	return r.getDetail(ctx, reservationDetailSelect+` WHERE r.id = ? LIMIT 1 FOR UPDATE OF r`, id)
}

func (r ReservationRepository) getDetail(ctx context.Context, query string, id int64) (models.ReservationDetail, error) {
	var d models.ReservationDetail
	if err := sqlx.GetContext(ctx, intdb.Conn(ctx, r.DB), &d, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ReservationDetail{}, domain.NotFoundError{Resource: "Reserva", Msg: "Reserva no encontrada", Err: err}
		}
		return models.ReservationDetail{}, fmt.Errorf("get reserva: %w", err)
	}
	return d, nil
}

func (r ReservationRepository) Delete(ctx context.Context, id int64) error {
	res, err := intdb.Conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM reservas WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reserva: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete reserva rows: %w", err)
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "Reserva", Msg: "Reserva no encontrada"}
	}
	return nil
}

func (r ReservationRepository) ListDetailsByUser(ctx context.Context, userID int64) ([]models.ReservationDetail, error) {
	out := []models.ReservationDetail{}
	if err := sqlx.SelectContext(ctx, intdb.Conn(ctx, r.DB), &out,
		reservationDetailSelect+` WHERE r.usuario_id = ? ORDER BY r.id ASC`, userID); err != nil {
		return nil, fmt.Errorf("list reservas: %w", err)
	}
	return out, nil
}
