package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_ordering/internal/service"
	"github.com/Skotchmaster/food_ordering/pkg/logging"
	"github.com/Skotchmaster/food_ordering/pkg/tokens"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func loginResponse(res *service.LoginResult) *transport.LoginResponse {
	return &transport.LoginResponse{
		AccessToken:  res.AccessToken,
		TokenType:    "bearer",
		RefreshToken: res.RefreshToken,
		AccessExp:    res.AccessExp.Unix(),
		RefreshExp:   res.RefreshExp.Unix(),
		User:         res.User.DTO(),
	}
}

func setAuthCookies(c echo.Context, res *service.LoginResult) {
	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, res.AccessToken, "/", res.AccessExp))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, res.RefreshToken, "/", res.RefreshExp))
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/"))
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/"))
}

// RefreshFunc adapts the service for the auto-refresh middleware.
func (h *AuthHTTP) RefreshFunc() func(ctx context.Context, refreshToken string) (*transport.LoginResponse, error) {
	return func(ctx context.Context, refreshToken string) (*transport.LoginResponse, error) {
		res, err := h.Svc.Refresh(ctx, refreshToken)
		if err != nil {
			return nil, err
		}
		return loginResponse(res), nil
	}
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "register_error", err)
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register_failed", err)
	}

	l.Info("register_successful", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user.DTO())
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "login_error", err)
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "login_failed", err)
	}

	setAuthCookies(c, res)
	l.Info("login_successful", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, loginResponse(res))
}

// Refresh takes the refresh token from the body or, failing that, the cookie.
func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	var req transport.RefreshRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return badBody(l, "refresh_error", err)
		}
	}
	if req.RefreshToken == "" {
		if ck, err := c.Cookie(tokens.RefreshCookie); err == nil {
			req.RefreshToken = ck.Value
		}
	}
	if req.RefreshToken == "" {
		l.Warn("refresh_error", "status", http.StatusUnauthorized, "reason", "no refresh token")
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	res, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		clearAuthCookies(c)
		return fail(l, "refresh_failed", err)
	}

	setAuthCookies(c, res)
	return c.JSON(http.StatusOK, loginResponse(res))
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	var req transport.RefreshRequest
	if c.Request().ContentLength > 0 {
		_ = c.Bind(&req)
	}
	if req.RefreshToken == "" {
		if ck, err := c.Cookie(tokens.RefreshCookie); err == nil {
			req.RefreshToken = ck.Value
		}
	}

	clearAuthCookies(c)
	if err := h.Svc.LogOut(ctx, req.RefreshToken); err != nil {
		l.Error("logout_failed", "status", 500, "reason", "cannot revoke refresh token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("successful_logout")
	return c.JSON(http.StatusOK, transport.Message{Message: "logged out"})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_me")

	user, err := h.Svc.Me(ctx, viewerFrom(c))
	if err != nil {
		return fail(l, "me_failed", err)
	}
	return c.JSON(http.StatusOK, user.DTO())
}
