package services

import (
	"context"
	"fmt"
	"strings"

	"carpool/internal/domain"
	"carpool/internal/domain/models"
	"carpool/internal/repositories"
	"carpool/internal/utils"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type TripStore interface {
	Create(ctx context.Context, in models.NewTrip) (int64, error)
	GetByID(ctx context.Context, id int64) (models.Trip, error)
}

// CreateTripInput is what a driver posts: the route picker payload plus schedule.
type CreateTripInput struct {
	Route     models.RouteSelection `json:"route" validate:"required"`
	Departure string                `json:"departure" validate:"required"`
	Seats     int                   `json:"seats" validate:"gte=0,lte=8"`
	WomenOnly models.Flag           `json:"women_only"`
}

type TripService struct {
	Trips     TripStore
	RequestID string
}

func (s TripService) trips() TripStore {
	if s.Trips != nil {
		return s.Trips
	}
	return repositories.TripRepository{}
}

func (s TripService) Create(ctx context.Context, who domain.Identity, in CreateTripInput) (models.Trip, error) {
	if !who.Authenticated() {
		return models.Trip{}, domain.UnauthorizedError{}
	}
	in.Route.Origin.Address = utils.NormalizeSpace(in.Route.Origin.Address)
	in.Route.Destination.Address = utils.NormalizeSpace(in.Route.Destination.Address)
	in.Route.TripLength = strings.TrimSpace(in.Route.TripLength)

	if err := validate.Struct(in); err != nil {
		return models.Trip{}, domain.ValidationError{Msg: validationMessage(err), Err: err}
	}
	if !in.Route.Origin.HasCoordinates() || !in.Route.Destination.HasCoordinates() {
		return models.Trip{}, domain.ValidationError{Field: "route", Msg: "origin and destination need coordinates"}
	}
	departure, _, err := utils.ParseDeparture(in.Departure)
	if err != nil {
		return models.Trip{}, domain.ValidationError{Field: "departure", Msg: err.Error(), Err: err}
	}
	seats := in.Seats
	if seats == 0 {
		seats = 1
	}

	id, err := s.trips().Create(ctx, models.NewTrip{
		DriverID:  int64(who.UserID),
		Route:     in.Route,
		Departure: departure,
		Seats:     seats,
		WomenOnly: bool(in.WomenOnly),
	})
	if err != nil {
		return models.Trip{}, domain.InternalError{Msg: "Unable to create trip", Err: err}
	}
	utils.LogEvent(s.RequestID, "trip", "create", fmt.Sprintf("id=%d driver_id=%d women_only=%v", id, who.UserID, bool(in.WomenOnly)))

	return s.Get(ctx, id)
}

func (s TripService) Get(ctx context.Context, id int64) (models.Trip, error) {
	if id <= 0 {
		return models.Trip{}, domain.ValidationError{Field: "id", Msg: "invalid trip id"}
	}
	t, err := s.trips().GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.Trip{}, err
		}
		return models.Trip{}, domain.InternalError{Err: err}
	}
	return t, nil
}

// validationMessage flattens validator errors into "field: rule" pairs.
func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.ToLower(fe.Namespace()), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
