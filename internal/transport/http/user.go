package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_ordering/internal/service"
	"github.com/Skotchmaster/food_ordering/pkg/logging"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "list_users")

	users, err := h.Svc.List(ctx, viewerFrom(c))
	if err != nil {
		return fail(l, "list_users_failed", err)
	}

	out := make([]transport.User, len(users))
	for i, u := range users {
		out[i] = u.DTO()
	}
	return c.JSON(http.StatusOK, out)
}
