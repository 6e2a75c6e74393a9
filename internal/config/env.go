package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Env struct {
	AppAddr string
	GinMode string

	DBDSN     string
	JWTSecret string
	RedisAddr string

	CORSAllowedOrigins []string

	GeocoderURL     string
	GeocoderCountry string
	RouterURL       string
	GeoTimeout      time.Duration
	GeoCacheTTL     time.Duration

	SearchWindow     time.Duration
	GeohashPrecision uint
}

const defaultDSN = "root:@tcp(127.0.0.1:3306)/carpool?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"

// LoadEnv reads settings from environment variables, falling back to defaults.
func LoadEnv() Env {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ADDR", ":8080")
	v.SetDefault("GIN_MODE", "")
	v.SetDefault("DB_DSN", defaultDSN)
	v.SetDefault("JWT_SECRET", "super-secret-key-change-me")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")
	v.SetDefault("GEOCODER_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("GEOCODER_COUNTRY", "in")
	v.SetDefault("ROUTER_URL", "https://router.project-osrm.org/route/v1/driving")
	v.SetDefault("GEO_TIMEOUT", "10s")
	v.SetDefault("GEO_CACHE_TTL", "24h")
	v.SetDefault("SEARCH_WINDOW", "3h")
	v.SetDefault("GEOHASH_PRECISION", 5)

	precision := v.GetUint("GEOHASH_PRECISION")
	if precision == 0 || precision > 12 {
		precision = 5
	}

	return Env{
		AppAddr:            strings.TrimSpace(v.GetString("APP_ADDR")),
		GinMode:            strings.TrimSpace(v.GetString("GIN_MODE")),
		DBDSN:              strings.TrimSpace(v.GetString("DB_DSN")),
		JWTSecret:          v.GetString("JWT_SECRET"),
		RedisAddr:          strings.TrimSpace(v.GetString("REDIS_ADDR")),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		GeocoderURL:        strings.TrimRight(v.GetString("GEOCODER_URL"), "/"),
		GeocoderCountry:    strings.TrimSpace(v.GetString("GEOCODER_COUNTRY")),
		RouterURL:          strings.TrimRight(v.GetString("ROUTER_URL"), "/"),
		GeoTimeout:         v.GetDuration("GEO_TIMEOUT"),
		GeoCacheTTL:        v.GetDuration("GEO_CACHE_TTL"),
		SearchWindow:       v.GetDuration("SEARCH_WINDOW"),
		GeohashPrecision:   precision,
	}
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
