package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/internal/apperr"
	"github.com/Skotchmaster/food_ordering/internal/service"
	authmw "github.com/Skotchmaster/food_ordering/pkg/middleware/auth"
)

// fail logs err under event and turns it into the HTTP error the client sees.
// Internal errors never leak their text.
func fail(l *slog.Logger, event string, err error) error {
	code := apperr.HTTPStatus(err)
	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	l.Warn(event, "status", code, "error", err)
	return echo.NewHTTPError(code, apperr.Message(err))
}

func badBody(l *slog.Logger, event string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", "bind", "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
}

func viewerFrom(c echo.Context) service.Viewer {
	v := service.Viewer{}
	v.UserID, _ = c.Get(authmw.KeyUserID).(string)
	v.Username, _ = c.Get(authmw.KeyUsername).(string)
	v.Role, _ = c.Get(authmw.KeyRole).(access.Role)
	v.Country, _ = c.Get(authmw.KeyCountry).(access.Country)
	return v
}
