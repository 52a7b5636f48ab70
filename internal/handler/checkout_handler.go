package handler

import (
	"net/http"

	"bookstore/internal/config"
	"bookstore/internal/middleware"
	"bookstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/checkout と /api/orders
type CheckoutHandler struct {
	checkoutUC *usecase.CheckoutUsecase
	orderUC    *usecase.OrderUsecase
}

func NewCheckoutHandler(checkoutUC *usecase.CheckoutUsecase, orderUC *usecase.OrderUsecase) *CheckoutHandler {
	return &CheckoutHandler{checkoutUC: checkoutUC, orderUC: orderUC}
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("/checkout", h.checkout)
	g.GET("/orders", h.listOrders)
}

// 成功は200、在庫不足などの拒否は409で problems を返す
func (h *CheckoutHandler) checkout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.checkoutUC.Checkout(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	if out.Rejected() {
		return c.JSON(http.StatusConflict, out)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) listOrders(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	// page（default 1）
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
	}
	// limit（default 20）
	limit, ok := queryInt(c, "limit", 20)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}

	out, err := h.orderUC.ListMyOrders(c.Request().Context(), userID, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
