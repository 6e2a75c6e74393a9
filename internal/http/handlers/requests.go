package handlers

import (
	"net/http"

	"carpool/internal/domain"
	"carpool/internal/http/middleware"
	"carpool/internal/services"
	"carpool/internal/utils"

	"github.com/gin-gonic/gin"
)

// POST /api/requests with form field data={"trip_id":..,"message":..}.
// A JSON body is accepted too.
func (h *Handlers) RequestRide(c *gin.Context) {
	who := middleware.GetIdentity(c)
	if !who.Authenticated() {
		RespondDomainError(c, domain.UnauthorizedError{})
		return
	}

	var in services.RequestInput
	raw := utils.FirstNonEmpty(c.PostForm("data"), c.Query("data"))
	var err error
	if raw != "" {
		err = decodeData(raw, &in)
	} else {
		err = c.ShouldBindJSON(&in)
	}
	if err != nil || in.TripID <= 0 {
		respondFail(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	svc := services.RequestService{Requests: h.Requests, RequestID: middleware.GetRequestID(c)}
	if _, err := svc.RequestRide(c.Request.Context(), who, in); err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Request Sent!", nil)
}
