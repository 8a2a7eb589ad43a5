package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/internal/apperr"
)

// Identity is the user a session is bound to. It is replaced wholesale on
// login and never mutated in place.
type Identity struct {
	ID       string
	Username string
	FullName string
	Role     access.Role
	Country  access.Country
}

// Authenticator verifies credentials against the auth service.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (token string, id Identity, err error)
	Identify(ctx context.Context, token string) (Identity, error)
}

type Session struct {
	auth Authenticator

	mu      sync.RWMutex
	user    *Identity
	token   string
	loading bool
}

func New(auth Authenticator) *Session {
	return &Session{auth: auth}
}

// Login verifies the credentials and binds the session to the returned
// identity. A rejected login leaves any previous identity cleared and returns
// an error wrapping apperr.ErrAuth.
func (s *Session) Login(ctx context.Context, username, password string) (Identity, error) {
	if username == "" || password == "" {
		return Identity{}, fmt.Errorf("username and password required: %w", apperr.ErrValidation)
	}

	s.setLoading(true)
	defer s.setLoading(false)

	token, id, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		s.Logout()
		if errors.Is(err, apperr.ErrAuth) || errors.Is(err, apperr.ErrNetwork) {
			return Identity{}, err
		}
		return Identity{}, fmt.Errorf("login: %w", err)
	}

	s.bind(token, id)
	return id, nil
}

// Resume rebinds the session from a previously issued token.
func (s *Session) Resume(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, fmt.Errorf("no stored token: %w", apperr.ErrAuth)
	}

	s.setLoading(true)
	defer s.setLoading(false)

	id, err := s.auth.Identify(ctx, token)
	if err != nil {
		s.Logout()
		return Identity{}, err
	}

	s.bind(token, id)
	return id, nil
}

// Logout is idempotent.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
}

func (s *Session) CurrentUser() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return Identity{}, false
	}
	return *s.user, true
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// HasRole reports whether a user is loaded and holds one of roles.
func (s *Session) HasRole(roles ...access.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && slices.Contains(roles, s.user.Role)
}

func (s *Session) Can(a access.Action) bool {
	return s.HasRole(access.Allowed(a)...)
}

// Authorize is Can as an error, for use in front of remote calls.
func (s *Session) Authorize(a access.Action) error {
	if _, ok := s.CurrentUser(); !ok {
		return fmt.Errorf("not logged in: %w", apperr.ErrAuth)
	}
	if !s.Can(a) {
		return fmt.Errorf("%s: %w", access.DeniedMessage(a), apperr.ErrForbidden)
	}
	return nil
}

func (s *Session) bind(token string, id Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &id
	s.token = token
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
