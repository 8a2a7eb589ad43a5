package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_ordering/internal/service"
	"github.com/Skotchmaster/food_ordering/pkg/logging"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create_order")

	var req transport.OrderCreate
	if err := c.Bind(&req); err != nil {
		return badBody(l, "create_order_error", err)
	}

	order, err := h.Svc.CreateOrder(ctx, viewerFrom(c), req)
	if err != nil {
		return fail(l, "create_order_failed", err)
	}
	return c.JSON(http.StatusCreated, order.DTO())
}

func (h *OrderHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "list_orders")

	orders, err := h.Svc.ListOrders(ctx, viewerFrom(c))
	if err != nil {
		return fail(l, "list_orders_failed", err)
	}

	out := make([]transport.Order, len(orders))
	for i, o := range orders {
		out[i] = o.DTO()
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_order", "order_id", c.Param("id"))

	order, err := h.Svc.GetOrder(ctx, viewerFrom(c), c.Param("id"))
	if err != nil {
		return fail(l, "get_order_failed", err)
	}
	return c.JSON(http.StatusOK, order.DTO())
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout_order", "order_id", c.Param("id"))

	order, err := h.Svc.Checkout(ctx, viewerFrom(c), c.Param("id"))
	if err != nil {
		return fail(l, "checkout_failed", err)
	}
	return c.JSON(http.StatusOK, order.DTO())
}

func (h *OrderHTTP) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cancel_order", "order_id", c.Param("id"))

	order, err := h.Svc.Cancel(ctx, viewerFrom(c), c.Param("id"))
	if err != nil {
		return fail(l, "cancel_failed", err)
	}
	return c.JSON(http.StatusOK, order.DTO())
}
