package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"carpool/internal/domain"
	"carpool/internal/geo"
	"carpool/internal/utils"

	"github.com/go-redis/redis/v8"
)

const geocodeCachePrefix = "geo:search:"

// GeocodeService fronts the geocoding and routing providers. Geocoding
// results are cached in Redis when a client is configured; cache errors fall
// through to the provider. It satisfies geo.Geocoder and geo.Router itself.
type GeocodeService struct {
	Provider  geo.Geocoder
	Router    geo.Router
	Cache     *redis.Client
	TTL       time.Duration
	Timeout   time.Duration
	RequestID string
}

func (s GeocodeService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.Timeout)
}

func cacheKey(query string) string {
	return geocodeCachePrefix + strings.ToLower(utils.NormalizeSpace(query))
}

func (s GeocodeService) Search(ctx context.Context, query string) ([]geo.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []geo.Candidate{}, nil
	}
	if s.Provider == nil {
		return nil, domain.InternalError{Msg: "geocoder not configured"}
	}

	key := cacheKey(query)
	if s.Cache != nil {
		if raw, err := s.Cache.Get(ctx, key).Bytes(); err == nil {
			var cached []geo.Candidate
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			utils.LogEvent(s.RequestID, "geo", "cache_get", err.Error())
		}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	out, err := s.Provider.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		ttl := s.TTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		if raw, err := json.Marshal(out); err == nil {
			if err := s.Cache.Set(ctx, key, raw, ttl).Err(); err != nil {
				utils.LogEvent(s.RequestID, "geo", "cache_set", err.Error())
			}
		}
	}
	return out, nil
}

// Reverse looks up the address of a coordinate by searching "lat, lon".
func (s GeocodeService) Reverse(ctx context.Context, pos geo.LatLng) ([]geo.Candidate, error) {
	return s.Search(ctx, geo.ReverseQuery(pos))
}

func (s GeocodeService) Route(ctx context.Context, waypoints []geo.LatLng) (geo.Route, error) {
	if s.Router == nil {
		return geo.Route{}, domain.InternalError{Msg: "router not configured"}
	}
	if len(waypoints) < 2 {
		return geo.Route{}, domain.ValidationError{Field: "waypoints", Msg: "at least 2 waypoints required"}
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.Router.Route(ctx, waypoints)
}
