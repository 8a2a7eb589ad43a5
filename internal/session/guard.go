package session

import "github.com/Skotchmaster/food_ordering/internal/access"

const (
	PathLogin     = "/"
	PathDashboard = "/dashboard"
)

type Decision struct {
	Allow    bool
	Redirect string
}

// Guard decides whether a protected page may render. Anonymous users go back
// to the login page, users lacking a role land on the dashboard. With no
// roles given any logged-in user passes.
func (s *Session) Guard(required ...access.Role) Decision {
	if _, ok := s.CurrentUser(); !ok {
		return Decision{Redirect: PathLogin}
	}
	if len(required) > 0 && !s.HasRole(required...) {
		return Decision{Redirect: PathDashboard}
	}
	return Decision{Allow: true}
}

// GuardPublic is the inverse for the login page.
func (s *Session) GuardPublic() Decision {
	if _, ok := s.CurrentUser(); ok {
		return Decision{Redirect: PathDashboard}
	}
	return Decision{Allow: true}
}
