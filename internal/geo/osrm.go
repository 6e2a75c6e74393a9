package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var ErrNoRoute = errors.New("no route found")

// OSRM is a Router backed by an OSRM server using the driving profile.
type OSRM struct {
	baseURL    string
	httpClient *http.Client
}

// NewOSRM expects baseURL to point at the profile, e.g.
// https://router.project-osrm.org/route/v1/driving.
func NewOSRM(baseURL string, timeout time.Duration) *OSRM {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OSRM{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type osrmResponse struct {
	Code   string      `json:"code"`
	Routes []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Geometry struct {
		Coordinates [][]float64 `json:"coordinates"`
	} `json:"geometry"`
}

func (o *OSRM) Route(ctx context.Context, waypoints []LatLng) (Route, error) {
	if len(waypoints) < 2 {
		return Route{}, fmt.Errorf("need at least 2 waypoints, got %d", len(waypoints))
	}

	// OSRM wants lng,lat;lng,lat
	parts := make([]string, 0, len(waypoints))
	for _, w := range waypoints {
		parts = append(parts, fmt.Sprintf("%.6f,%.6f", w.Lng, w.Lat))
	}
	url := fmt.Sprintf("%s/%s?overview=full&geometries=geojson&alternatives=false&steps=false",
		o.baseURL, strings.Join(parts, ";"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Route{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return Route{}, fmt.Errorf("OSRM request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Route{}, fmt.Errorf("OSRM returned status %d", resp.StatusCode)
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Route{}, fmt.Errorf("failed to decode OSRM response: %w", err)
	}
	if body.Code != "Ok" || len(body.Routes) == 0 {
		return Route{}, ErrNoRoute
	}

	r := body.Routes[0]
	coords := make([]LatLng, 0, len(r.Geometry.Coordinates))
	for _, c := range r.Geometry.Coordinates {
		if len(c) < 2 {
			continue
		}
		coords = append(coords, LatLng{Lat: c[1], Lng: c[0]})
	}
	return Route{
		Coordinates:   coords,
		TotalTime:     r.Duration,
		TotalDistance: r.Distance,
	}, nil
}
