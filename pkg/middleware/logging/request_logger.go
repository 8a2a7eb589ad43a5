package loggingmw

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_ordering/pkg/logging"
	authmw "github.com/Skotchmaster/food_ordering/pkg/middleware/auth"
)

// quietPaths are polled by orchestrators and only logged when they fail.
var quietPaths = map[string]struct{}{
	"/health/live":  {},
	"/health/ready": {},
}

// RequestLogger puts a request-scoped logger into the request context and
// writes one line per request once the handler has returned. Handler errors
// are rendered here so the logged status is the one the client got.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Response().Header().Get(echo.HeaderXRequestID)
			}

			l := base.With("method", req.Method, "route", c.Path(), "remote_ip", c.RealIP())
			if rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}
			status := c.Response().Status

			if _, quiet := quietPaths[c.Path()]; quiet && status < 400 {
				return nil
			}

			attrs := []any{"status", status, "duration_ms", time.Since(start).Milliseconds()}
			if uid, ok := c.Get(authmw.KeyUserID).(string); ok && uid != "" {
				attrs = append(attrs, "user_id", uid, "role", c.Get(authmw.KeyRole), "country", c.Get(authmw.KeyCountry))
			}

			switch {
			case status >= 500:
				l.Error("request_completed", append(attrs, "error", errText(err))...)
			case status >= 400:
				l.Warn("request_completed", append(attrs, "error", errText(err))...)
			default:
				l.Info("request_completed", append(attrs, "bytes", c.Response().Size)...)
			}
			return nil
		}
	}
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return fmt.Sprint(he.Message)
	}
	return err.Error()
}
