package handlers

import (
	"net/http"
	"strconv"

	"carpool/internal/domain"
	"carpool/internal/geo"
	"carpool/internal/http/middleware"
	"carpool/internal/utils"

	"github.com/gin-gonic/gin"
)

const msgGeoUnavailable = "Geo service unavailable"

// respondGeoError reports provider failures as 502 and everything else as a domain error.
func respondGeoError(c *gin.Context, action string, err error) {
	if domain.IsValidation(err) || domain.IsInternal(err) {
		RespondDomainError(c, err)
		return
	}
	_ = c.Error(err)
	utils.LogEvent(middleware.GetRequestID(c), "geo", action, err.Error())
	respondFail(c, http.StatusBadGateway, msgGeoUnavailable)
}

// GET /api/geo/search?q=
func (h *Handlers) GeoSearch(c *gin.Context) {
	results, err := h.geoService(c).Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondGeoError(c, "search", err)
		return
	}
	respondOK(c, http.StatusOK, "OK", gin.H{"results": results})
}

// GET /api/geo/reverse?lat=&lon=
func (h *Handlers) GeoReverse(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		respondFail(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	results, err := h.geoService(c).Reverse(c.Request.Context(), geo.LatLng{Lat: lat, Lng: lon})
	if err != nil {
		respondGeoError(c, "reverse", err)
		return
	}
	respondOK(c, http.StatusOK, "OK", gin.H{"results": results})
}

type routeRequest struct {
	Waypoints []geo.LatLng `json:"waypoints" binding:"required"`
}

// POST /api/geo/route {"waypoints":[{"lat":..,"lng":..},...]}
func (h *Handlers) GeoRoute(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	route, err := h.geoService(c).Route(c.Request.Context(), req.Waypoints)
	if err != nil {
		respondGeoError(c, "route", err)
		return
	}
	respondOK(c, http.StatusOK, "OK", gin.H{"route": route})
}
