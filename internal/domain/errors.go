package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Msg      string
	Err      error
}

func (e NotFoundError) Error() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s no encontrado", e.Resource)
	default:
		return "Recurso no encontrado"
	}
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("%s inválido", e.Field)
	}
	return "Solicitud incorrecta"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s ya existe", e.Resource)
	default:
		return "conflicto"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// AuthError covers bad credentials and missing, expired or forged tokens.
type AuthError struct {
	Msg string
	Err error
}

func (e AuthError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "No autorizado"
}

func (e AuthError) Unwrap() error { return e.Err }

// ForbiddenError means the caller is authenticated but does not own the resource.
type ForbiddenError struct {
	Msg string
}

func (e ForbiddenError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "Acceso denegado"
}

// CapacityError is returned when a trip has no seats left.
type CapacityError struct {
	TripID int64
}

func (e CapacityError) Error() string {
	return "Viaje no disponible"
}

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" && e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return "internal error: " + e.Err.Error()
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsAuth(err error) bool {
	var target AuthError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}

func IsCapacity(err error) bool {
	var target CapacityError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
