package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intconfig "carpool/internal/config"
	"carpool/internal/domain"
	"carpool/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const userColumns = `id, name, username, email, phone, gender, password_hash, created_at`

func scanUser(s rowScanner) (models.User, error) {
	var u models.User
	err := s.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.Gender, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	return u, err
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	db := r.db()
	if db == nil {
		return models.User{}, fmt.Errorf("db not available")
	}
	return scanUser(db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`, id))
}

// GetByLogin finds a user by email or username.
func (r UserRepository) GetByLogin(ctx context.Context, login string) (models.User, error) {
	db := r.db()
	if db == nil {
		return models.User{}, fmt.Errorf("db not available")
	}
	return scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? OR username = ? LIMIT 1`, login, login))
}

func (r UserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	db := r.db()
	if db == nil {
		return false, fmt.Errorf("db not available")
	}
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ? OR username = ?`, email, username).Scan(&n)
	return n > 0, err
}

func (r UserRepository) Create(ctx context.Context, u models.User) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, fmt.Errorf("db not available")
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO users (name, username, email, phone, gender, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW())`,
		u.Name, u.Username, u.Email, u.Phone, u.Gender, u.PasswordHash)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
