package models

import "time"

// Gender codes as stored in users.gender.
const (
	GenderFemale = 0
	GenderMale   = 1
	GenderOther  = 2
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Gender       int       `json:"gender"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u User) IsFemale() bool {
	return u.Gender == GenderFemale
}
