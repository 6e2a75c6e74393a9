package handlers

import (
	"net/http"

	"carpool/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req services.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	token, user, err := h.authService(c).Login(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Logged in!", gin.H{
		"token": token,
		"user":  user,
	})
}

// POST /api/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	user, err := h.authService(c).Register(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Registered!", gin.H{"user": user})
}
