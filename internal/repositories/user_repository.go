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

type UserRepository struct {
	DB *sqlx.DB
}

// Create inserts a user and returns its id. A duplicate email yields
// domain.ConflictError.
func (r UserRepository) Create(ctx context.Context, u models.User) (int64, error) {
	res, err := intdb.Conn(ctx, r.DB).ExecContext(ctx,
		`INSERT INTO usuarios (nombre, email, password_hash) VALUES (?, ?, ?)`,
		strings.TrimSpace(u.Nombre), strings.TrimSpace(u.Email), u.PasswordHash,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, domain.ConflictError{Resource: "email", Msg: "El email ya está registrado", Err: err}
		}
		return 0, fmt.Errorf("insert usuario: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert usuario id: %w", err)
	}
	return id, nil
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := sqlx.GetContext(ctx, intdb.Conn(ctx, r.DB), &u, `
		SELECT id, nombre, email, password_hash, created_at
		FROM usuarios
		WHERE email = ?
		LIMIT 1
	`, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.NotFoundError{Resource: "Usuario", Err: err}
		}
		return models.User{}, fmt.Errorf("get usuario by email: %w", err)
	}
	return u, nil
}

func (r UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int
	err := sqlx.GetContext(ctx, intdb.Conn(ctx, r.DB), &count,
		`SELECT COUNT(*) FROM usuarios WHERE email = ?`, strings.TrimSpace(email))
	if err != nil {
		return false, fmt.Errorf("count usuario by email: %w", err)
	}
	return count > 0, nil
}
