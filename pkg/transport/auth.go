package transport

import (
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/internal/apperr"
)

type User struct {
	ID        string         `json:"id"`
	Username  string         `json:"username"`
	FullName  string         `json:"full_name"`
	Role      access.Role    `json:"role"`
	Country   access.Country `json:"country"`
	CreatedAt time.Time      `json:"created_at"`
}

func (u User) Validate() error {
	if u.ID == "" || u.Username == "" {
		return fmt.Errorf("user: id and username required: %w", apperr.ErrValidation)
	}
	if _, err := access.ParseRole(string(u.Role)); err != nil {
		return fmt.Errorf("user %s: %w", u.Username, err)
	}
	if _, err := access.ParseCountry(string(u.Country)); err != nil {
		return fmt.Errorf("user %s: %w", u.Username, err)
	}
	return nil
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Country  string `json:"country"`
}

func (r *RegisterRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.FullName = strings.TrimSpace(r.FullName)
	if r.Username == "" || r.Password == "" {
		return fmt.Errorf("username and password required: %w", apperr.ErrValidation)
	}
	if len(r.Password) < 6 {
		return fmt.Errorf("password must be at least 6 characters: %w", apperr.ErrValidation)
	}
	if r.FullName == "" {
		r.FullName = r.Username
	}
	if _, err := access.ParseCountry(r.Country); err != nil {
		return err
	}
	return nil
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" || r.Password == "" {
		return fmt.Errorf("username and password required: %w", apperr.ErrValidation)
	}
	return nil
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	AccessExp    int64  `json:"access_exp"`
	RefreshExp   int64  `json:"refresh_exp"`
	User         User   `json:"user"`
}

func (r LoginResponse) Validate() error {
	if r.AccessToken == "" {
		return fmt.Errorf("login response: access_token missing: %w", apperr.ErrValidation)
	}
	return r.User.Validate()
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}
