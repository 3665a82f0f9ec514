package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"viajes/internal/domain"
	"viajes/internal/domain/models"
	"viajes/internal/utils"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type UserStore interface {
	Create(ctx context.Context, u models.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// AuthService owns registration and credential checks.
type AuthService struct {
	Users UserStore
	Cost  int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{Users: users, Cost: bcrypt.DefaultCost}
}

func (s *AuthService) cost() int {
	if s.Cost < bcrypt.MinCost {
		return bcrypt.DefaultCost
	}
	return s.Cost
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (int64, error) {
	reqID := utils.RequestID(ctx)
	name = utils.NormalizeSpace(name)
	email = strings.TrimSpace(email)

	if email == "" || len(email) > 100 || !emailPattern.MatchString(email) {
		return 0, domain.ValidationError{Field: "email", Msg: "Formato de email inválido"}
	}
	if utf8.RuneCountInString(name) > 100 {
		return 0, domain.ValidationError{Field: "nombre", Msg: "El nombre admite como máximo 100 caracteres"}
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return 0, domain.ValidationError{Field: "password", Msg: fmt.Sprintf("La contraseña debe tener al menos %d caracteres", minPasswordLength)}
	}

	exists, err := s.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return 0, domain.InternalError{Msg: "check email", Err: err}
	}
	if exists {
		return 0, domain.ConflictError{Resource: "email", Msg: "El email ya está registrado"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost())
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return 0, domain.ValidationError{Field: "password", Msg: "La contraseña es demasiado larga", Err: err}
		}
		return 0, domain.InternalError{Msg: "hash password", Err: err}
	}

	id, err := s.Users.Create(ctx, models.User{Nombre: name, Email: email, PasswordHash: string(hash)})
	if err != nil {
		if domain.IsConflict(err) {
			return 0, err
		}
		return 0, domain.InternalError{Msg: "create user", Err: err}
	}

	utils.LogEvent(reqID, "auth", "register", fmt.Sprintf("user_id=%d", id))
	return id, nil
}

// Authenticate returns the user id for a valid email/password pair. Unknown
// email and wrong password produce the same error after the same bcrypt work.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (int64, error) {
	reqID := utils.RequestID(ctx)
	email = strings.TrimSpace(email)
	invalid := domain.AuthError{Msg: "Credenciales inválidas"}

	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if !domain.IsNotFound(err) {
			return 0, domain.InternalError{Msg: "load user", Err: err}
		}
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		utils.LogEvent(reqID, "auth", "login_failed", "reason=credentials")
		return 0, invalid
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		utils.LogEvent(reqID, "auth", "login_failed", "reason=credentials")
		return 0, invalid
	}

	utils.LogEvent(reqID, "auth", "login", fmt.Sprintf("user_id=%d", user.ID))
	return user.ID, nil
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), s.cost())
	})
	return s.dummyHash
}
