package handlers

import (
	"errors"
	"net/http"

	"carpool/internal/domain"
	"carpool/internal/http/middleware"
	"carpool/internal/utils"

	"github.com/gin-gonic/gin"
)

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case domain.IsValidation(err):
		respondFail(c, http.StatusBadRequest, err.Error())
	case domain.IsUnauthorized(err):
		respondFail(c, http.StatusUnauthorized, err.Error())
	case domain.IsForbidden(err):
		respondFail(c, http.StatusForbidden, err.Error())
	case domain.IsNotFound(err):
		respondFail(c, http.StatusNotFound, err.Error())
	case domain.IsConflict(err):
		respondFail(c, http.StatusConflict, err.Error())
	case domain.IsInternal(err):
		utils.LogEvent(middleware.GetRequestID(c), "http", "internal_error", unwrapMessage(err))
		respondFail(c, http.StatusInternalServerError, err.Error())
	default:
		utils.LogEvent(middleware.GetRequestID(c), "http", "unexpected_error", err.Error())
		respondFail(c, http.StatusInternalServerError, "Internal server error")
	}
}

func unwrapMessage(err error) string {
	var ie domain.InternalError
	if errors.As(err, &ie) && ie.Err != nil {
		return ie.Error() + ": " + ie.Err.Error()
	}
	return err.Error()
}
