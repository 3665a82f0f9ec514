package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"viajes/internal/domain"
	"viajes/internal/utils"
)

const userIDKey = "user_id"

type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's user id in the gin context.
func RequireAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abortUnauthorized(c, "Token requerido")
			return
		}

		userID, err := tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			msg := "Token inválido"
			if domain.IsAuth(err) {
				msg = err.Error()
			}
			utils.LogEvent(GetRequestID(c), "auth", "token_rejected", msg)
			abortUnauthorized(c, msg)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated caller, or 0 outside RequireAuth.
func UserID(c *gin.Context) int64 {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"mensaje":    msg,
		"request_id": GetRequestID(c),
	})
}
