package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/pkg/logging"
	"github.com/Skotchmaster/food_ordering/pkg/tokens"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

const (
	KeyUserID   = "user_id"
	KeyUsername = "username"
	KeyRole     = "role"
	KeyCountry  = "country"

	tokenKey = "token"
)

// RefreshFunc trades a refresh token for a new pair.
type RefreshFunc func(ctx context.Context, refreshToken string) (*transport.LoginResponse, error)

type AuthMiddleware struct {
	JWTSecret []byte
	// Refresh is optional. When set, a request with an expired access
	// cookie and a valid refresh cookie is let through with new cookies.
	Refresh RefreshFunc
}

func NewAuthMiddleware(secret []byte, refresh RefreshFunc) *AuthMiddleware {
	return &AuthMiddleware{JWTSecret: secret, Refresh: refresh}
}

// RequireAuth accepts a Bearer header first and the access cookie second.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    m.JWTSecret,
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		ContextKey:    tokenKey,
		TokenLookup:   "header:Authorization:Bearer ,cookie:" + tokens.AccessCookie,
		NewClaimsFunc: func(echo.Context) jwt.Claims { return new(tokens.AccessClaims) },
		SuccessHandler: func(c echo.Context) {
			if tkn, ok := c.Get(tokenKey).(*jwt.Token); ok {
				if claims, ok := tkn.Claims.(*tokens.AccessClaims); ok {
					setUserContext(c, claims)
				}
			}
		},
		ErrorHandler:           m.onError,
		ContinueOnIgnoredError: true,
	})(next)
}

func (m *AuthMiddleware) onError(c echo.Context, err error) error {
	var extractErr *echojwt.TokenExtractionError
	if errors.As(err, &extractErr) || errors.Is(err, echojwt.ErrJWTMissing) {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}
	if !errors.Is(err, jwt.ErrTokenExpired) || m.Refresh == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
	}

	refreshCookie, rErr := c.Cookie(tokens.RefreshCookie)
	if rErr != nil || refreshCookie.Value == "" {
		clearAuthCookies(c)
		return echo.NewHTTPError(http.StatusUnauthorized, "access token expired")
	}

	resp, refErr := m.Refresh(c.Request().Context(), refreshCookie.Value)
	if refErr != nil {
		clearAuthCookies(c)
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh failed")
	}

	claims, pErr := tokens.AccessClaimsFromToken(resp.AccessToken, m.JWTSecret)
	if pErr != nil {
		clearAuthCookies(c)
		return echo.NewHTTPError(http.StatusUnauthorized, "new access token invalid")
	}

	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, resp.AccessToken, "/", time.Unix(resp.AccessExp, 0)))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, resp.RefreshToken, "/", time.Unix(resp.RefreshExp, 0)))
	setUserContext(c, claims)
	return nil
}

// RequireAction must run after RequireAuth.
func RequireAction(a access.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(KeyRole).(access.Role)
			if !access.Permits(role, a) {
				return echo.NewHTTPError(http.StatusForbidden, access.DeniedMessage(a))
			}
			return next(c)
		}
	}
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/"))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/"))
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set(KeyUserID, claims.Subject)
	c.Set(KeyUsername, claims.Username)
	c.Set(KeyRole, claims.Role)
	c.Set(KeyCountry, claims.Country)

	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("user_id", claims.Subject)
	c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, l)))
}
