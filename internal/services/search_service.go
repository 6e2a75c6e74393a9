package services

import (
	"context"
	"fmt"
	"time"

	"carpool/internal/domain"
	"carpool/internal/domain/models"
	"carpool/internal/repositories"
	"carpool/internal/utils"
)

type TripFinder interface {
	FindNear(ctx context.Context, q repositories.TripQuery) ([]models.Trip, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (models.User, error)
}

// SearchInput is the decoded "data" parameter of a trip search.
type SearchInput struct {
	Route     models.RouteQuery `json:"route"`
	Departure string            `json:"departure"`
	WomenOnly models.Flag       `json:"women_only"`
}

// Viewer is the requester as seen by the visibility policy.
type Viewer struct {
	ID     int64
	Female bool
}

// Visible decides whether trip may be listed to viewer.
//
// A trip is never listed to its own driver. When women-only results were
// requested only women-only trips are listed, whoever asks. Otherwise female
// viewers see every trip and everyone else, anonymous callers included,
// sees only trips open to all.
func Visible(trip models.Trip, viewer Viewer, womenOnlyRequested bool) bool {
	if viewer.ID > 0 && trip.Driver.ID == viewer.ID {
		return false
	}
	if womenOnlyRequested {
		return bool(trip.WomenOnly)
	}
	if viewer.ID > 0 && viewer.Female {
		return true
	}
	return !bool(trip.WomenOnly)
}

type SearchService struct {
	Trips     TripFinder
	Users     UserLookup
	Window    time.Duration
	Precision uint
	RequestID string
}

func (s SearchService) trips() TripFinder {
	if s.Trips != nil {
		return s.Trips
	}
	return repositories.TripRepository{}
}

func (s SearchService) users() UserLookup {
	if s.Users != nil {
		return s.Users
	}
	return repositories.UserRepository{}
}

// Search lists trips near in.Route around in.Departure that the caller may see.
// A missing route, an unreadable departure, a repository failure and an empty
// match all yield an empty list.
func (s SearchService) Search(ctx context.Context, who domain.Identity, in SearchInput) ([]models.Trip, error) {
	if in.Route.Empty() {
		utils.LogEvent(s.RequestID, "search", "validate", "route is empty")
		return []models.Trip{}, nil
	}
	departure, dateOnly, err := utils.ParseDeparture(in.Departure)
	if err != nil {
		utils.LogEvent(s.RequestID, "search", "validate", err.Error())
		return []models.Trip{}, nil
	}

	window := s.Window
	if window <= 0 {
		window = 3 * time.Hour
	}

	candidates, err := s.trips().FindNear(ctx, repositories.TripQuery{
		Route:     in.Route,
		Departure: departure,
		DateOnly:  dateOnly,
		Window:    window,
		Precision: s.Precision,
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "search", "find_near", "lookup failed: "+err.Error())
		candidates = nil
	}

	viewer := s.resolveViewer(ctx, who)
	out := make([]models.Trip, 0, len(candidates))
	for _, t := range candidates {
		if Visible(t, viewer, bool(in.WomenOnly)) {
			out = append(out, t)
		}
	}

	utils.LogEvent(s.RequestID, "search", "search",
		fmt.Sprintf("candidates=%d visible=%d women_only=%v authenticated=%v", len(candidates), len(out), bool(in.WomenOnly), who.Authenticated()))
	return out, nil
}

// resolveViewer looks the caller's gender up once per search. A failed lookup
// treats the caller as not female.
func (s SearchService) resolveViewer(ctx context.Context, who domain.Identity) Viewer {
	if !who.Authenticated() {
		return Viewer{}
	}
	v := Viewer{ID: int64(who.UserID)}
	u, err := s.users().GetByID(ctx, v.ID)
	if err != nil {
		utils.LogEvent(s.RequestID, "search", "gender_lookup", fmt.Sprintf("user_id=%d failed: %v", v.ID, err))
		return v
	}
	v.Female = u.IsFemale()
	return v
}
