package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// POST /registro
func (h Handler) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	id, err := h.Accounts.Register(c.Request.Context(), req.displayName(), req.Email.String(), string(req.Password))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createdResponse{Mensaje: "Usuario registrado", ID: id})
}

// POST /login
func (h Handler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	userID, err := h.Accounts.Authenticate(c.Request.Context(), req.Email.String(), string(req.Password))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	token, err := h.Tokens.Issue(userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
