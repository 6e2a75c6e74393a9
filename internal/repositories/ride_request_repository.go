package repositories

import (
	"context"
	"database/sql"
	"fmt"

	intconfig "carpool/internal/config"
	"carpool/internal/domain/models"
)

type RideRequestRepository struct {
	DB *sql.DB
}

func (r RideRequestRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Create inserts one request. Identical requests are not merged.
func (r RideRequestRepository) Create(ctx context.Context, req models.RideRequest) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, fmt.Errorf("db not available")
	}
	res, err := db.ExecContext(ctx,
		`INSERT INTO ride_requests (user_id, trip_id, message, created_at) VALUES (?, ?, ?, NOW())`,
		req.UserID, req.TripID, req.Message)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListByTrip returns the requests for a trip with requester contact data, oldest first.
func (r RideRequestRepository) ListByTrip(ctx context.Context, tripID int64) ([]models.RideRequestDetail, error) {
	db := r.db()
	if db == nil {
		return []models.RideRequestDetail{}, nil
	}
	rows, err := db.QueryContext(ctx, `
		SELECT rr.id, rr.user_id, rr.trip_id, COALESCE(rr.message,''), rr.created_at,
		       COALESCE(u.name,''), COALESCE(u.phone,'')
		FROM ride_requests rr
		LEFT JOIN users u ON u.id = rr.user_id
		WHERE rr.trip_id = ?
		ORDER BY rr.created_at ASC, rr.id ASC`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.RideRequestDetail{}
	for rows.Next() {
		var d models.RideRequestDetail
		if err := rows.Scan(&d.ID, &d.UserID, &d.TripID, &d.Message, &d.CreatedAt, &d.UserName, &d.UserPhone); err != nil {
			return out, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
