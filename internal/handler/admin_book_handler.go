package handler

import (
	"net/http"
	"strconv"
	"time"

	"bookstore/internal/config"
	"bookstore/internal/domain/model"
	"bookstore/internal/middleware"
	"bookstore/internal/repository"
	"bookstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// BookCreateRequest は管理者の書籍追加。categoryは名前でも番号でもよい。
type BookCreateRequest struct {
	ISBN     string `json:"isbn"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
	ImageURL string `json:"image_url"`
	Stock    int64  `json:"stock"`
}

type PriceUpdateRequest struct {
	Price *int64 `json:"price"`
}

// RestockRequest は在庫の増減（deltaはマイナスも可）
type RestockRequest struct {
	Delta  int64  `json:"delta"`
	Reason string `json:"reason"`
}

// /api/admin をまとめる
type AdminBookHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewAdminBookHandler(uc *usecase.CatalogUsecase) *AdminBookHandler {
	return &AdminBookHandler{uc: uc}
}

// adminを登録
func (h *AdminBookHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	admin := e.Group("/api/admin")

	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.AdminRoleGuard())

	admin.POST("/books", h.createBook)
	admin.PUT("/books/:id/price", h.updatePrice)
	admin.POST("/books/:id/restock", h.restock)
	admin.GET("/audit-logs", h.auditLogs)
}

func (h *AdminBookHandler) createBook(c echo.Context) error {
	var req BookCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.AdminCreateBook(
		c.Request().Context(),
		adminID,
		usecase.AdminCreateBookInput{
			ISBN:     req.ISBN,
			Title:    req.Title,
			Author:   req.Author,
			Price:    req.Price,
			Category: req.Category,
			ImageURL: req.ImageURL,
			Stock:    req.Stock,
		},
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *AdminBookHandler) updatePrice(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req PriceUpdateRequest
	if err := c.Bind(&req); err != nil || req.Price == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.AdminUpdatePrice(c.Request().Context(), adminID, id, *req.Price)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminBookHandler) restock(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req RestockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.AdminRestock(c.Request().Context(), adminID, id, req.Delta, req.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ?action=RESTOCK&book_id=3&from=...&to=...&limit=50&offset=0
func (h *AdminBookHandler) auditLogs(c echo.Context) error {
	var f repository.AuditLogFilter

	if v := c.QueryParam("action"); v != "" {
		a := model.AuditAction(v)
		f.Action = &a
	}
	if v := c.QueryParam("book_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid book_id"})
		}
		rt := model.AuditResourceBook
		f.ResourceType = &rt
		f.ResourceID = &id
	}
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"from", &f.CreatedFrom}, {"to", &f.CreatedTo}} {
		v := c.QueryParam(p.name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + p.name})
		}
		*p.dst = &t
	}

	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offset"})
	}
	f.Limit = limit
	f.Offset = offset

	logs, err := h.uc.ListAuditLogs(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}
