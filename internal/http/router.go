package api

import (
	stdhttp "net/http"

	intconfig "carpool/internal/config"
	h "carpool/internal/http/handlers"
	"carpool/internal/http/middleware"
	"carpool/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func NewRouter(env intconfig.Env, api *h.Handlers) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(env.CORSAllowedOrigins),
		middleware.Metrics(),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.Logger().Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, h.Envelope{Status: "ERROR", Message: "route not found: " + c.Request.Method + " " + c.Request.URL.Path})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	g := r.Group("/api", middleware.AuthOptional(api.Auth()))
	{
		g.GET("/health", h.Health)
		g.GET("/db-check", h.DBCheck)
		g.GET("/routes", h.Routes)

		// Auth
		auth := g.Group("/auth")
		auth.POST("/login", api.Login)
		auth.POST("/register", api.Register)

		g.GET("/users/me", middleware.AuthRequired(), api.CurrentUser)

		// Search is open to anonymous callers; identity only narrows visibility.
		g.GET("/search", api.SearchTrips)
		// Requests check the identity themselves to answer with "Login Required!".
		g.POST("/requests", api.RequestRide)

		// Trips
		trips := g.Group("/trips")
		trips.GET("/:id", api.GetTrip)
		trips.POST("", middleware.AuthRequired(), api.CreateTrip)
		trips.GET("/:id/sheet", middleware.AuthRequired(), api.GetTripSheet)

		// Geocoding / routing proxies
		geo := g.Group("/geo")
		geo.GET("/search", api.GeoSearch)
		geo.GET("/reverse", api.GeoReverse)
		geo.POST("/route", api.GeoRoute)
	}

	h.SetRouter(r)
	return r
}
