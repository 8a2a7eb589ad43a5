package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/internal/apperr"
	"github.com/Skotchmaster/food_ordering/internal/hash"
	"github.com/Skotchmaster/food_ordering/internal/models"
	"github.com/Skotchmaster/food_ordering/internal/repo"
	"github.com/Skotchmaster/food_ordering/pkg/logging"
	"github.com/Skotchmaster/food_ordering/pkg/tokens"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Events        Publisher
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	User         models.User
}

func (s *AuthService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return 15 * time.Minute
}

func (s *AuthService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return 7 * 24 * time.Hour
}

// Register creates a MEMBER. Elevated roles only come from seeding.
func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if err := req.Validate(); err != nil {
		return nil, err
	}
	country, _ := access.ParseCountry(req.Country)

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		if !errors.Is(err, apperr.ErrValidation) {
			l.Error("register_error", "reason", "cannot hash the password", "error", err)
		}
		return nil, err
	}
	user := models.User{
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: pwHash,
		Role:         access.RoleMember,
		Country:      country,
	}

	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, fmt.Errorf("username already registered: %w", apperr.ErrValidation)
		}
		l.Error("register_error", "reason", "cannot create user", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, l, TopicUserEvents, Event{Type: "user_registered", ID: user.ID, UserID: user.ID})
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if err := (transport.LoginRequest{Username: username, Password: password}).Validate(); err != nil {
		return nil, err
	}

	user, err := s.Repo.UserExist(ctx, username, password)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidCredentials) {
			return nil, fmt.Errorf("invalid username or password: %w", apperr.ErrAuth)
		}
		l.Error("login_error", "error", err)
		return nil, err
	}

	res, err := s.issue(ctx, user)
	if err != nil {
		l.Error("login_error", "reason", "cannot issue tokens", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, l, TopicUserEvents, Event{Type: "user_logged_in", ID: user.ID, UserID: user.ID})
	return res, nil
}

// Refresh trades a refresh token for a new pair. The old refresh token is
// revoked in the same transaction that stores the new one.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", apperr.ErrAuth)
	}

	user, err := s.Repo.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("invalid refresh token: %w", apperr.ErrAuth)
		}
		return nil, err
	}

	res, jti, err := s.mint(user)
	if err != nil {
		return nil, err
	}

	next := models.RefreshToken{
		UserID:    user.ID,
		Token:     tokens.Sha256Hex(res.RefreshToken),
		JTI:       jti,
		ExpiresAt: res.RefreshExp.Unix(),
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, next); err != nil {
		if errors.Is(err, repo.ErrTokenRevoked) || errors.Is(err, repo.ErrNotFound) {
			l.Warn("refresh_rejected", "user_id", user.ID, "error", err)
			return nil, fmt.Errorf("invalid refresh token: %w", apperr.ErrAuth)
		}
		return nil, err
	}
	return res, nil
}

func (s *AuthService) LogOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

func (s *AuthService) Me(ctx context.Context, v Viewer) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, v.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*LoginResult, error) {
	res, jti, err := s.mint(user)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.AddRefreshToken(ctx, user.ID, jti, res.RefreshToken, res.RefreshExp); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *AuthService) mint(user *models.User) (*LoginResult, string, error) {
	now := time.Now()
	accessExp := now.Add(s.accessTTL())
	refreshExp := now.Add(s.refreshTTL())

	accessToken, err := tokens.NewAccessToken(s.JWTSecret, user.ID, user.Username, user.Role, user.Country, accessExp)
	if err != nil {
		return nil, "", err
	}
	refreshToken, jti, err := tokens.NewRefreshToken(s.RefreshSecret, user.ID, refreshExp)
	if err != nil {
		return nil, "", err
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		User:         *user,
	}, jti, nil
}
