package handlers

import (
	"time"

	"carpool/internal/http/middleware"
	"carpool/internal/services"

	"github.com/gin-gonic/gin"
)

type TripRepo interface {
	services.TripFinder
	services.TripStore
}

type RequestRepo interface {
	services.RequestStore
	services.RequestLister
}

// Handlers carries the collaborators shared by the endpoints. Nil stores
// fall back to the MySQL repositories on the shared connection.
type Handlers struct {
	Trips    TripRepo
	Users    services.UserStore
	Requests RequestRepo
	Geo      services.GeocodeService

	JWTSecret        []byte
	SearchWindow     time.Duration
	GeohashPrecision uint
}

func (h *Handlers) Auth() services.AuthService {
	return services.AuthService{Users: h.Users, Secret: h.JWTSecret}
}

func (h *Handlers) authService(c *gin.Context) services.AuthService {
	svc := h.Auth()
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}

func (h *Handlers) tripService(c *gin.Context) services.TripService {
	return services.TripService{Trips: h.Trips, RequestID: middleware.GetRequestID(c)}
}

func (h *Handlers) geoService(c *gin.Context) services.GeocodeService {
	svc := h.Geo
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}
