package server

import (
	"net/http"

	"bookstore/internal/config"
	"bookstore/internal/handler"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	Books     *handler.BookHandler
	Cart      *handler.CartHandler
	Checkout  *handler.CheckoutHandler
	AdminBook *handler.AdminBookHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	h.Auth.RegisterRoutes(e)
	h.Books.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e, cfg)
	h.Checkout.RegisterRoutes(e, cfg)
	h.AdminBook.RegisterRoutes(e, cfg)
}
