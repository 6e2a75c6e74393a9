package repositories

import (
	"database/sql"
	"fmt"

	intdb "carpool/internal/db"
)

var tableDDL = []struct {
	name string
	ddl  string
}{
	{"users", `
CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	username VARCHAR(100) NOT NULL,
	email VARCHAR(255) NOT NULL,
	phone VARCHAR(100) NOT NULL DEFAULT '',
	gender TINYINT NOT NULL DEFAULT 1,
	password_hash VARCHAR(255) NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_email (email),
	UNIQUE KEY uniq_username (username)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"trips", `
CREATE TABLE IF NOT EXISTS trips (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	driver_id BIGINT NOT NULL,
	origin_address VARCHAR(512) NOT NULL,
	origin_lat DOUBLE NOT NULL,
	origin_lon DOUBLE NOT NULL,
	origin_geohash CHAR(12) NOT NULL,
	destination_address VARCHAR(512) NOT NULL,
	destination_lat DOUBLE NOT NULL,
	destination_lon DOUBLE NOT NULL,
	destination_geohash CHAR(12) NOT NULL,
	trip_length VARCHAR(64) NULL,
	departure_at DATETIME NOT NULL,
	seats INT NOT NULL DEFAULT 1,
	women_only TINYINT NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_departure (departure_at),
	KEY idx_origin_geohash (origin_geohash),
	KEY idx_driver (driver_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"ride_requests", `
CREATE TABLE IF NOT EXISTS ride_requests (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	user_id BIGINT NOT NULL,
	trip_id BIGINT NOT NULL,
	message TEXT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_trip (trip_id),
	KEY idx_user (user_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
}

// EnsureSchema creates missing tables. Existing tables are left alone, except
// that a users table from an older deployment gets its gender column added.
func EnsureSchema(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db not available")
	}
	for _, t := range tableDDL {
		if intdb.HasTable(db, t.name) {
			continue
		}
		if _, err := db.Exec(t.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
	}
	if !intdb.HasColumn(db, "users", "gender") {
		if _, err := db.Exec(`ALTER TABLE users ADD COLUMN gender TINYINT NOT NULL DEFAULT 1`); err != nil {
			return fmt.Errorf("add users.gender: %w", err)
		}
	}
	return nil
}
