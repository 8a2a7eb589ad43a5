package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_ordering/internal/service"
	"github.com/Skotchmaster/food_ordering/pkg/logging"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

type PaymentHTTP struct {
	Svc *service.PaymentService
}

func (h *PaymentHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "list_payment_methods")

	items, err := h.Svc.List(ctx, viewerFrom(c))
	if err != nil {
		return fail(l, "list_payment_methods_failed", err)
	}

	out := make([]transport.PaymentMethod, len(items))
	for i, it := range items {
		out[i] = it.DTO()
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PaymentHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create_payment_method")

	var req transport.PaymentMethodCreate
	if err := c.Bind(&req); err != nil {
		return badBody(l, "create_payment_method_error", err)
	}

	pm, err := h.Svc.Create(ctx, viewerFrom(c), req)
	if err != nil {
		return fail(l, "create_payment_method_failed", err)
	}
	return c.JSON(http.StatusCreated, pm.DTO())
}

func (h *PaymentHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update_payment_method", "payment_method_id", c.Param("id"))

	var req transport.PaymentMethodCreate
	if err := c.Bind(&req); err != nil {
		return badBody(l, "update_payment_method_error", err)
	}

	pm, err := h.Svc.Update(ctx, viewerFrom(c), c.Param("id"), req)
	if err != nil {
		return fail(l, "update_payment_method_failed", err)
	}
	return c.JSON(http.StatusOK, pm.DTO())
}

func (h *PaymentHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete_payment_method", "payment_method_id", c.Param("id"))

	if err := h.Svc.Delete(ctx, viewerFrom(c), c.Param("id")); err != nil {
		return fail(l, "delete_payment_method_failed", err)
	}
	return c.JSON(http.StatusOK, transport.Message{Message: "payment method deleted"})
}
