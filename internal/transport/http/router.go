package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_ordering/internal/access"
	authmw "github.com/Skotchmaster/food_ordering/pkg/middleware/auth"
)

type Deps struct {
	Auth    *AuthHTTP
	Catalog *CatalogHTTP
	Orders  *OrderHTTP
	Payment *PaymentHTTP
	Users   *UserHTTP
	Health  *HealthHTTP
	AuthMW  *authmw.AuthMiddleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", d.Health.Live)
	e.GET("/health/ready", d.Health.Ready)

	api := e.Group("/api")
	api.GET("/health", d.Health.Health)

	auth := api.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.LogOut, d.AuthMW.RequireAuth)
	auth.GET("/me", d.Auth.Me, d.AuthMW.RequireAuth)

	users := api.Group("/users", d.AuthMW.RequireAuth, authmw.RequireAction(access.ActionViewUsers))
	users.GET("", d.Users.List)

	restaurants := api.Group("/restaurants", d.AuthMW.RequireAuth, authmw.RequireAction(access.ActionViewRestaurants))
	restaurants.GET("", d.Catalog.ListRestaurants)
	restaurants.GET("/search", d.Catalog.Search)
	restaurants.GET("/:id", d.Catalog.GetRestaurant)
	restaurants.GET("/:id/menu", d.Catalog.Menu)

	orders := api.Group("/orders", d.AuthMW.RequireAuth)
	orders.GET("", d.Orders.List)
	orders.POST("", d.Orders.Create, authmw.RequireAction(access.ActionPlaceOrder))
	orders.GET("/:id", d.Orders.Get)
	orders.POST("/:id/checkout", d.Orders.Checkout, authmw.RequireAction(access.ActionPlaceOrder))
	orders.PUT("/:id/cancel", d.Orders.Cancel, authmw.RequireAction(access.ActionCancelOrder))

	payments := api.Group("/payment-methods", d.AuthMW.RequireAuth)
	payments.GET("", d.Payment.List)
	manage := authmw.RequireAction(access.ActionManagePaymentMethods)
	payments.POST("", d.Payment.Create, manage)
	payments.PUT("/:id", d.Payment.Update, manage)
	payments.DELETE("/:id", d.Payment.Delete, manage)
}
