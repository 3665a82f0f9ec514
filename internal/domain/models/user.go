package models

import "time"

type User struct {
	ID           int64     `db:"id" json:"id"`
	Nombre       string    `db:"nombre" json:"nombre"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"creado_en"`
}
