package handlers

import (
	"net/http"

	"carpool/internal/domain"
	"carpool/internal/http/middleware"
	"carpool/internal/repositories"
	"carpool/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) users() services.UserStore {
	if h.Users != nil {
		return h.Users
	}
	return repositories.UserRepository{}
}

// GET /api/users/me
func (h *Handlers) CurrentUser(c *gin.Context) {
	who := middleware.GetIdentity(c)
	u, err := h.users().GetByID(c.Request.Context(), int64(who.UserID))
	if err != nil {
		if !domain.IsNotFound(err) {
			err = domain.InternalError{Err: err}
		}
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "OK", gin.H{"user": u})
}
