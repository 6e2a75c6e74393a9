package models

import "time"

// RideRequest is a user's request to join a trip.
type RideRequest struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	TripID    int64     `json:"trip_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// RideRequestDetail joins a request with its requester for the trip sheet.
type RideRequestDetail struct {
	RideRequest
	UserName  string `json:"user_name"`
	UserPhone string `json:"user_phone"`
}
