package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	intconfig "carpool/internal/config"
	intdb "carpool/internal/db"
	"carpool/internal/domain"
	"carpool/internal/domain/models"
	"carpool/internal/geo"
)

// TripQuery selects trips near a route around a departure time.
type TripQuery struct {
	Route     models.RouteQuery
	Departure time.Time
	// DateOnly widens the time match to the whole calendar day of Departure.
	DateOnly bool
	Window   time.Duration
	// Precision is the geohash prefix length compared for proximity.
	Precision uint
}

type TripRepository struct {
	DB *sql.DB
}

func (r TripRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const tripColumns = `
	t.id, t.driver_id, COALESCE(u.name,''),
	t.origin_address, t.origin_lat, t.origin_lon,
	t.destination_address, t.destination_lat, t.destination_lon,
	COALESCE(t.trip_length,''), t.departure_at, t.seats, t.women_only, t.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(s rowScanner) (models.Trip, error) {
	var (
		t         models.Trip
		womenOnly int
	)
	err := s.Scan(
		&t.ID, &t.Driver.ID, &t.Driver.Name,
		&t.Origin.Address, &t.Origin.Lat, &t.Origin.Lon,
		&t.Destination.Address, &t.Destination.Lat, &t.Destination.Lon,
		&t.TripLength, &t.Departure, &t.Seats, &womenOnly, &t.CreatedAt,
	)
	t.WomenOnly = womenOnly != 0
	return t, err
}

// Create stores a trip and returns its id.
func (r TripRepository) Create(ctx context.Context, in models.NewTrip) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, fmt.Errorf("db not available")
	}
	o, d := in.Route.Origin, in.Route.Destination
	res, err := db.ExecContext(ctx, `
		INSERT INTO trips (
			driver_id,
			origin_address, origin_lat, origin_lon, origin_geohash,
			destination_address, destination_lat, destination_lon, destination_geohash,
			trip_length, departure_at, seats, women_only, created_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,NOW())`,
		in.DriverID,
		o.Address, o.Lat, o.Lon, geo.Encode(o.Lat, o.Lon, geo.StoragePrecision),
		d.Address, d.Lat, d.Lon, geo.Encode(d.Lat, d.Lon, geo.StoragePrecision),
		intdb.NullIfEmpty(strings.TrimSpace(in.Route.TripLength)),
		in.Departure, in.Seats, models.Flag(in.WomenOnly).Int(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r TripRepository) GetByID(ctx context.Context, id int64) (models.Trip, error) {
	db := r.db()
	if db == nil {
		return models.Trip{}, fmt.Errorf("db not available")
	}
	row := db.QueryRowContext(ctx, `SELECT `+tripColumns+`
		FROM trips t LEFT JOIN users u ON u.id = t.driver_id
		WHERE t.id = ? LIMIT 1`, id)
	trip, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Trip{}, domain.NotFoundError{Resource: "trip", Err: err}
	}
	return trip, err
}

// FindNear returns trips whose endpoints lie near the queried route and whose
// departure falls in the queried window, earliest first.
func (r TripRepository) FindNear(ctx context.Context, q TripQuery) ([]models.Trip, error) {
	db := r.db()
	if db == nil {
		return []models.Trip{}, nil
	}

	query, args := buildNearQuery(q)
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func buildNearQuery(q TripQuery) (string, []any) {
	where := []string{"1=1"}
	args := []any{}

	if !q.Departure.IsZero() {
		var from, to time.Time
		if q.DateOnly {
			y, m, d := q.Departure.Date()
			from = time.Date(y, m, d, 0, 0, 0, 0, q.Departure.Location())
			to = from.AddDate(0, 0, 1)
			where = append(where, "t.departure_at >= ? AND t.departure_at < ?")
		} else {
			from = q.Departure.Add(-q.Window)
			to = q.Departure.Add(q.Window)
			where = append(where, "t.departure_at BETWEEN ? AND ?")
		}
		args = append(args, from, to)
	}

	precision := q.Precision
	if precision == 0 {
		precision = 5
	}

	switch sel := q.Route.Selection; {
	case sel != nil && sel.Origin.HasCoordinates() && sel.Destination.HasCoordinates():
		for _, side := range []struct {
			col   string
			place models.Place
		}{
			{"t.origin_geohash", sel.Origin},
			{"t.destination_geohash", sel.Destination},
		} {
			cells := geo.Cells(side.place.Lat, side.place.Lon, precision)
			marks := strings.TrimSuffix(strings.Repeat("?,", len(cells)), ",")
			where = append(where, fmt.Sprintf("LEFT(%s, %d) IN (%s)", side.col, precision, marks))
			for _, c := range cells {
				args = append(args, c)
			}
		}
	case sel != nil:
		if o := strings.TrimSpace(sel.Origin.Address); o != "" {
			where = append(where, "LOWER(t.origin_address) LIKE ?")
			args = append(args, likePattern(o))
		}
		if d := strings.TrimSpace(sel.Destination.Address); d != "" {
			where = append(where, "LOWER(t.destination_address) LIKE ?")
			args = append(args, likePattern(d))
		}
	case q.Route.Label != "":
		where = append(where, "(LOWER(t.origin_address) LIKE ? OR LOWER(t.destination_address) LIKE ?)")
		p := likePattern(q.Route.Label)
		args = append(args, p, p)
	}

	query := `SELECT ` + tripColumns + `
		FROM trips t LEFT JOIN users u ON u.id = t.driver_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY t.departure_at ASC, t.id ASC`
	return query, args
}

func likePattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}
