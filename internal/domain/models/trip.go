package models

import "time"

// Driver is the public part of the user who posted a trip.
type Driver struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Trip is a driver-posted ride offer.
type Trip struct {
	ID          int64     `json:"id"`
	Driver      Driver    `json:"driver"`
	Origin      Place     `json:"origin"`
	Destination Place     `json:"destination"`
	TripLength  string    `json:"trip_length"`
	Departure   time.Time `json:"departure"`
	Seats       int       `json:"seats"`
	WomenOnly   Flag      `json:"women_only"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTrip carries what a driver submits when posting a trip.
type NewTrip struct {
	DriverID  int64
	Route     RouteSelection
	Departure time.Time
	Seats     int
	WomenOnly bool
}
