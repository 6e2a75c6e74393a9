package handlers

import (
	"net/http"

	"carpool/internal/http/middleware"
	"carpool/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/search?data={"route":...,"departure":...,"women_only":0|1}
func (h *Handlers) SearchTrips(c *gin.Context) {
	var in services.SearchInput
	if err := decodeData(c.Query("data"), &in); err != nil {
		respondFail(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	svc := services.SearchService{
		Trips:     h.Trips,
		Users:     h.Users,
		Window:    h.SearchWindow,
		Precision: h.GeohashPrecision,
		RequestID: middleware.GetRequestID(c),
	}
	trips, err := svc.Search(c.Request.Context(), middleware.GetIdentity(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Searched!", gin.H{"trips": trips})
}
