package storefront

import (
	"strings"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/internal/session"
)

// Route decides whether the page at path may be shown to the current user.
func (s *Storefront) Route(path string) session.Decision {
	path = strings.TrimRight(path, "/")
	if path == "" {
		return s.session.GuardPublic()
	}

	switch path {
	case "/dashboard", "/restaurants", "/cart", "/orders":
		return s.session.Guard()
	case "/payment-methods", "/users":
		return s.session.Guard(access.RoleAdmin)
	}

	if id, ok := strings.CutPrefix(path, "/restaurants/"); ok && id != "" && !strings.Contains(id, "/") {
		return s.session.Guard()
	}
	return session.Decision{Redirect: session.PathDashboard}
}
