package handlers

import (
	"net/http"
	"strconv"

	"carpool/internal/domain"
	"carpool/internal/http/middleware"
	"carpool/internal/services"

	"github.com/gin-gonic/gin"
)

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondDomainError(c, domain.ValidationError{Field: "id", Msg: "invalid trip id", Err: err})
		return 0, false
	}
	return id, true
}

// POST /api/trips
func (h *Handlers) CreateTrip(c *gin.Context) {
	var in services.CreateTripInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondFail(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	trip, err := h.tripService(c).Create(c.Request.Context(), middleware.GetIdentity(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Trip Created!", gin.H{"trip": trip})
}

// GET /api/trips/:id
func (h *Handlers) GetTrip(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	trip, err := h.tripService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Trip Found!", gin.H{"trip": trip})
}

// GET /api/trips/:id/sheet returns the driver's trip sheet (inline PDF).
func (h *Handlers) GetTripSheet(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	svc := services.SheetService{
		Trips:     h.Trips,
		Requests:  h.Requests,
		RequestID: middleware.GetRequestID(c),
	}
	pdfBytes, filename, err := svc.Generate(c.Request.Context(), middleware.GetIdentity(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
