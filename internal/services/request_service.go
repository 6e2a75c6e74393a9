package services

import (
	"context"
	"fmt"
	"strings"

	"carpool/internal/domain"
	"carpool/internal/domain/models"
	"carpool/internal/repositories"
	"carpool/internal/utils"
)

type RequestStore interface {
	Create(ctx context.Context, req models.RideRequest) (int64, error)
}

// RequestInput is the decoded "data" parameter of a ride request.
type RequestInput struct {
	TripID  int64  `json:"trip_id"`
	Message string `json:"message"`
}

type RequestService struct {
	Requests  RequestStore
	RequestID string
}

func (s RequestService) requests() RequestStore {
	if s.Requests != nil {
		return s.Requests
	}
	return repositories.RideRequestRepository{}
}

// RequestRide records that the caller wants to join a trip. Anonymous callers
// are rejected before anything is written. Repeated calls create repeated records.
func (s RequestService) RequestRide(ctx context.Context, who domain.Identity, in RequestInput) (int64, error) {
	if !who.Authenticated() {
		return 0, domain.UnauthorizedError{}
	}
	req := models.RideRequest{
		UserID:  int64(who.UserID),
		TripID:  in.TripID,
		Message: strings.TrimSpace(in.Message),
	}
	id, err := s.requests().Create(ctx, req)
	if err != nil {
		utils.LogEvent(s.RequestID, "request", "create", fmt.Sprintf("user_id=%d trip_id=%d failed: %v", req.UserID, req.TripID, err))
		return 0, domain.InternalError{Msg: "Unable to request ride", Err: err}
	}
	utils.LogEvent(s.RequestID, "request", "create", fmt.Sprintf("id=%d user_id=%d trip_id=%d", id, req.UserID, req.TripID))
	return id, nil
}
