package access

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Skotchmaster/food_ordering/internal/apperr"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleMember  Role = "MEMBER"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleManager, RoleMember:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q: %w", s, apperr.ErrValidation)
}

type Action string

const (
	ActionViewRestaurants      Action = "view_restaurants"
	ActionAddToCart            Action = "add_to_cart"
	ActionPlaceOrder           Action = "place_order"
	ActionCancelOrder          Action = "cancel_order"
	ActionManagePaymentMethods Action = "manage_payment_methods"
	ActionViewUsers            Action = "view_users"
)

// policy is an allow-list. ADMIN passes the elevated checks because it is
// listed in every row, not because roles are ordered.
var policy = map[Action][]Role{
	ActionViewRestaurants:      {RoleAdmin, RoleManager, RoleMember},
	ActionAddToCart:            {RoleAdmin, RoleManager, RoleMember},
	ActionPlaceOrder:           {RoleAdmin, RoleManager},
	ActionCancelOrder:          {RoleAdmin, RoleManager},
	ActionManagePaymentMethods: {RoleAdmin},
	ActionViewUsers:            {RoleAdmin},
}

// Allowed returns the roles permitted to perform a. Unknown actions allow nobody.
func Allowed(a Action) []Role {
	return slices.Clone(policy[a])
}

func Permits(r Role, a Action) bool {
	return slices.Contains(policy[a], r)
}

// DeniedMessage is the text returned alongside a 403 for a.
func DeniedMessage(a Action) string {
	roles := policy[a]
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return "access denied. required roles: " + strings.Join(names, ", ")
}
