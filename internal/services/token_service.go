package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"viajes/internal/domain"
)

// TokenService issues and verifies stateless HS256 bearer tokens.
type TokenService struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) TokenService {
	return TokenService{Secret: []byte(secret), TTL: ttl}
}

func (s TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s TokenService) Issue(userID int64) (string, error) {
	if len(s.Secret) == 0 {
		return "", domain.InternalError{Msg: "jwt secret not configured"}
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", domain.InternalError{Msg: "sign token", Err: err}
	}
	return signed, nil
}

// Verify returns the user id carried by a valid, unexpired token.
func (s TokenService) Verify(raw string) (int64, error) {
	if raw == "" {
		return 0, domain.AuthError{Msg: "Token requerido"}
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, domain.AuthError{Msg: "Token expirado", Err: err}
		}
		return 0, domain.AuthError{Msg: "Token inválido", Err: err}
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, domain.AuthError{Msg: "Token inválido", Err: err}
	}
	return userID, nil
}
