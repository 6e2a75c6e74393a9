package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"carpool/internal/domain"
	"carpool/internal/domain/models"
	"carpool/internal/repositories"
	"carpool/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type UserStore interface {
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByLogin(ctx context.Context, login string) (models.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	Create(ctx context.Context, u models.User) (int64, error)
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required,alphanum,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	// Gender is a pointer so that a missing value is not read as 0 (female).
	Gender   *int   `json:"gender" validate:"required,oneof=0 1 2"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthService struct {
	Users     UserStore
	Secret    []byte
	Now       func() time.Time
	RequestID string
}

func (s AuthService) users() UserStore {
	if s.Users != nil {
		return s.Users
	}
	return repositories.UserRepository{}
}

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s AuthService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	in.Name = utils.NormalizeSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validate.Struct(in); err != nil {
		return models.User{}, domain.ValidationError{Msg: validationMessage(err), Err: err}
	}

	exists, err := s.users().ExistsByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil {
		return models.User{}, domain.InternalError{Err: err}
	}
	if exists {
		return models.User{}, domain.ConflictError{Resource: "user", Msg: "email or username already registered"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "unable to hash password", Err: err}
	}

	u := models.User{
		Name:         in.Name,
		Username:     in.Username,
		Email:        in.Email,
		Phone:        in.Phone,
		Gender:       *in.Gender,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	id, err := s.users().Create(ctx, u)
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "unable to save user", Err: err}
	}
	u.ID = id
	utils.LogEvent(s.RequestID, "auth", "register", fmt.Sprintf("user_id=%d", id))
	return u, nil
}

// Login checks credentials and returns a signed token with the user.
func (s AuthService) Login(ctx context.Context, in LoginInput) (string, models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Struct(in); err != nil {
		return "", models.User{}, domain.ValidationError{Msg: validationMessage(err), Err: err}
	}
	invalid := domain.UnauthorizedError{Msg: "wrong email/username or password"}

	u, err := s.users().GetByLogin(ctx, in.Email)
	if err != nil {
		if domain.IsNotFound(err) {
			return "", models.User{}, invalid
		}
		return "", models.User{}, domain.InternalError{Err: err}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return "", models.User{}, invalid
	}

	token, err := s.IssueToken(domain.ID(u.ID))
	if err != nil {
		return "", models.User{}, domain.InternalError{Msg: "unable to create token", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "login", fmt.Sprintf("user_id=%d", u.ID))
	return token, u, nil
}

func (s AuthService) IssueToken(userID domain.ID) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": int64(userID),
		"exp":     s.now().Add(tokenTTL).Unix(),
	})
	return token.SignedString(s.Secret)
}

// ParseToken returns the identity carried by a token issued by IssueToken.
func (s AuthService) ParseToken(raw string) (domain.Identity, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return domain.Anonymous, err
	}
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return domain.Anonymous, fmt.Errorf("token without user_id")
	}
	return domain.Identity{UserID: domain.ID(id)}, nil
}
