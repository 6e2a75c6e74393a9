package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Place is an address with its coordinates.
type Place struct {
	Address string  `json:"address" validate:"required"`
	Lat     float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon     float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// HasCoordinates reports whether the place carries a usable position.
// (0,0) is treated as "not geocoded".
func (p Place) HasCoordinates() bool {
	return p.Lat != 0 || p.Lon != 0
}

// RouteSelection is the serialized output of the route picker.
type RouteSelection struct {
	Origin      Place  `json:"origin" validate:"required"`
	Destination Place  `json:"destination" validate:"required"`
	TripLength  string `json:"trip_length,omitempty"`
}

// RouteQuery is the "route" search parameter: either a full selection
// or a free-text label.
type RouteQuery struct {
	Selection *RouteSelection
	Label     string
}

func (q *RouteQuery) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*q = RouteQuery{}
		return nil
	case b[0] == '{':
		var sel RouteSelection
		if err := json.Unmarshal(b, &sel); err != nil {
			return err
		}
		*q = RouteQuery{Selection: &sel}
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*q = RouteQuery{Label: strings.TrimSpace(s)}
		return nil
	default:
		// number/bool -> stringify best-effort
		*q = RouteQuery{Label: strings.TrimSpace(string(b))}
		return nil
	}
}

func (q RouteQuery) MarshalJSON() ([]byte, error) {
	if q.Selection != nil {
		return json.Marshal(q.Selection)
	}
	return json.Marshal(q.Label)
}

func (q RouteQuery) Empty() bool {
	return q.Selection == nil && q.Label == ""
}
