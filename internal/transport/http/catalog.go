package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_ordering/internal/service"
	"github.com/Skotchmaster/food_ordering/internal/util"
	"github.com/Skotchmaster/food_ordering/pkg/logging"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) ListRestaurants(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "list_restaurants")

	items, err := h.Svc.ListRestaurants(ctx, viewerFrom(c))
	if err != nil {
		return fail(l, "list_restaurants_failed", err)
	}

	out := make([]transport.Restaurant, len(items))
	for i, it := range items {
		out[i] = it.DTO()
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search_restaurants")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Svc.Search(ctx, viewerFrom(c), c.QueryParam("q"), page, size)
	if err != nil {
		return fail(l, "search_failed", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CatalogHTTP) GetRestaurant(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_restaurant", "restaurant_id", c.Param("id"))

	rest, err := h.Svc.GetRestaurant(ctx, viewerFrom(c), c.Param("id"))
	if err != nil {
		return fail(l, "get_restaurant_failed", err)
	}
	return c.JSON(http.StatusOK, rest.DTO())
}

func (h *CatalogHTTP) Menu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_menu", "restaurant_id", c.Param("id"))

	items, err := h.Svc.Menu(ctx, viewerFrom(c), c.Param("id"))
	if err != nil {
		return fail(l, "get_menu_failed", err)
	}

	out := make([]transport.MenuItem, len(items))
	for i, it := range items {
		out[i] = it.DTO()
	}
	return c.JSON(http.StatusOK, out)
}
