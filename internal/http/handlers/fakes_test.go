package handlers

import (
	"context"
	"errors"
	"sync"

	"carpool/internal/domain"
	"carpool/internal/domain/models"
	"carpool/internal/geo"
	"carpool/internal/repositories"
)

type fakeTrips struct {
	mu      sync.Mutex
	near    []models.Trip
	nearErr error
	lastQ   repositories.TripQuery
	byID    map[int64]models.Trip
	created []models.NewTrip
}

func (f *fakeTrips) FindNear(_ context.Context, q repositories.TripQuery) ([]models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQ = q
	return f.near, f.nearErr
}

func (f *fakeTrips) Create(_ context.Context, in models.NewTrip) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	id := int64(len(f.created))
	if f.byID == nil {
		f.byID = map[int64]models.Trip{}
	}
	f.byID[id] = models.Trip{
		ID:          id,
		Driver:      models.Driver{ID: in.DriverID},
		Origin:      in.Route.Origin,
		Destination: in.Route.Destination,
		TripLength:  in.Route.TripLength,
		Departure:   in.Departure,
		Seats:       in.Seats,
		WomenOnly:   models.Flag(in.WomenOnly),
	}
	return id, nil
}

func (f *fakeTrips) GetByID(_ context.Context, id int64) (models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byID[id]
	if !ok {
		return models.Trip{}, domain.NotFoundError{Resource: "trip"}
	}
	return t, nil
}

type fakeUsers struct {
	byID    map[int64]models.User
	lookups int
	created []models.User
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (models.User, error) {
	f.lookups++
	u, ok := f.byID[id]
	if !ok {
		return models.User{}, errors.New("lookup failed")
	}
	return u, nil
}

func (f *fakeUsers) GetByLogin(_ context.Context, login string) (models.User, error) {
	for _, u := range f.byID {
		if u.Email == login || u.Username == login {
			return u, nil
		}
	}
	return models.User{}, domain.NotFoundError{Resource: "user"}
}

func (f *fakeUsers) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	for _, u := range f.byID {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) Create(_ context.Context, u models.User) (int64, error) {
	if f.byID == nil {
		f.byID = map[int64]models.User{}
	}
	u.ID = int64(len(f.byID) + 1)
	f.byID[u.ID] = u
	f.created = append(f.created, u)
	return u.ID, nil
}

type fakeRequests struct {
	created []models.RideRequest
	err     error
	list    []models.RideRequestDetail
}

func (f *fakeRequests) Create(_ context.Context, r models.RideRequest) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.created = append(f.created, r)
	return int64(len(f.created)), nil
}

func (f *fakeRequests) ListByTrip(_ context.Context, tripID int64) ([]models.RideRequestDetail, error) {
	return f.list, nil
}

type fakeGeocoder struct {
	hits []geo.Candidate
	err  error
	q    []string
}

func (f *fakeGeocoder) Search(_ context.Context, query string) ([]geo.Candidate, error) {
	f.q = append(f.q, query)
	return f.hits, f.err
}

type fakeRouter struct{}

func (fakeRouter) Route(_ context.Context, waypoints []geo.LatLng) (geo.Route, error) {
	return geo.Route{Coordinates: waypoints, TotalTime: 600, TotalDistance: 9000}, nil
}
