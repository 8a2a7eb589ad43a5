package access

import (
	"fmt"
	"strings"

	"github.com/Skotchmaster/food_ordering/internal/apperr"
)

type Country string

const (
	CountryIndia   Country = "INDIA"
	CountryAmerica Country = "AMERICA"
)

func ParseCountry(s string) (Country, error) {
	switch c := Country(strings.ToUpper(strings.TrimSpace(s))); c {
	case CountryIndia, CountryAmerica:
		return c, nil
	}
	return "", fmt.Errorf("unknown country %q: %w", s, apperr.ErrValidation)
}

func (c Country) CurrencySymbol() string {
	if c == CountryIndia {
		return "₹"
	}
	return "$"
}

// CanAccessCountry reports whether a user of the given role and country may
// see a resource located in resource.
func CanAccessCountry(role Role, country, resource Country) bool {
	if role == RoleAdmin {
		return true
	}
	return country == resource
}

// OrderScope describes which orders a role is allowed to list.
type OrderScope int

const (
	ScopeAll OrderScope = iota
	ScopeCountry
	ScopeOwn
)

func OrderScopeFor(role Role) OrderScope {
	switch role {
	case RoleAdmin:
		return ScopeAll
	case RoleManager:
		return ScopeCountry
	default:
		return ScopeOwn
	}
}
