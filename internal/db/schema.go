package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

type table struct {
	name string
	ddl  string
}

// Order matters: reservas references usuarios and viajes.
var tables = []table{
	{
		name: "usuarios",
		ddl: `
CREATE TABLE IF NOT EXISTS usuarios (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	nombre VARCHAR(100) NOT NULL DEFAULT '',
	email VARCHAR(100) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_usuarios_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`,
	},
	{
		name: "viajes",
		ddl: `
CREATE TABLE IF NOT EXISTS viajes (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	destino VARCHAR(100) NOT NULL,
	fecha VARCHAR(100) NOT NULL,
	precio DECIMAL(12,2) NOT NULL,
	disponibilidad INT NOT NULL DEFAULT 1,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	CONSTRAINT chk_viajes_precio CHECK (precio >= 0),
	CONSTRAINT chk_viajes_disponibilidad CHECK (disponibilidad >= 0)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`,
	},
	{
		name: "reservas",
		ddl: `
CREATE TABLE IF NOT EXISTS reservas (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	usuario_id BIGINT NOT NULL,
	viaje_id BIGINT NOT NULL,
	estado VARCHAR(50) NOT NULL DEFAULT 'Reservado',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	KEY idx_reservas_usuario (usuario_id),
	KEY idx_reservas_viaje (viaje_id),
	CONSTRAINT fk_reservas_usuario FOREIGN KEY (usuario_id) REFERENCES usuarios (id) ON DELETE RESTRICT,
	CONSTRAINT fk_reservas_viaje FOREIGN KEY (viaje_id) REFERENCES viajes (id) ON DELETE RESTRICT
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`,
	},
}

// EnsureSchema creates the tables that do not exist yet. Existing tables are
// left untouched.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, t := range tables {
		exists, err := HasTable(ctx, db, t.name)
		if err != nil {
			return fmt.Errorf("check table %s: %w", t.name, err)
		}
		if exists {
			continue
		}
		if _, err := db.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
		log.Printf("[DB] action=create_table table=%s", t.name)
	}
	return nil
}

func HasTable(ctx context.Context, q sqlx.QueryerContext, name string) (bool, error) {
	var found sql.NullString
	err := q.QueryRowxContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, name).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return found.Valid && found.String != "", nil
}
