package handler

import (
	"net/http"

	"bookstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/books の公開API
type BookHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewBookHandler(uc *usecase.CatalogUsecase) *BookHandler {
	return &BookHandler{uc: uc}
}

// 公開ルートを登録
func (h *BookHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/books", h.list)
	e.GET("/api/books/:id", h.detail)
}

// ?category=Fiction または ?category=0
func (h *BookHandler) list(c echo.Context) error {
	out, err := h.uc.ListBooks(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BookHandler) detail(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetBook(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
