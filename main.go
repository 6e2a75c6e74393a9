package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "carpool/internal/config"
	"carpool/internal/geo"
	router "carpool/internal/http"
	"carpool/internal/http/handlers"
	"carpool/internal/repositories"
	"carpool/internal/services"
	"carpool/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	log := utils.Logger()
	defer func() { _ = log.Sync() }()

	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db := intconfig.ConnectDB(env.DBDSN)
	defer intconfig.CloseDB()
	if err := repositories.EnsureSchema(db); err != nil {
		log.Fatal("schema bootstrap failed", zap.Error(err))
	}

	rdb := intconfig.ConnectRedis(env.RedisAddr)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	api := &handlers.Handlers{
		Trips:    repositories.TripRepository{DB: db},
		Users:    repositories.UserRepository{DB: db},
		Requests: repositories.RideRequestRepository{DB: db},
		Geo: services.GeocodeService{
			Provider: geo.NewNominatim(env.GeocoderURL, env.GeocoderCountry, env.GeoTimeout),
			Router:   geo.NewOSRM(env.RouterURL, env.GeoTimeout),
			Cache:    rdb,
			TTL:      env.GeoCacheTTL,
			Timeout:  env.GeoTimeout,
		},
		JWTSecret:        []byte(env.JWTSecret),
		SearchWindow:     env.SearchWindow,
		GeohashPrecision: env.GeohashPrecision,
	}

	r := router.NewRouter(env, api)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", env.AppAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown failed", zap.Error(err))
	}

	log.Info("server stopped")
}
