package handler

import (
	"net/http"
	"strconv"

	"bookstore/internal/middleware"
	"bookstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse は { message: string } の形
type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

//middleware.AuthJWT が載せたユーザーIDを取り出す
func getUserIDFromContext(c echo.Context) (int64, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return 0, false
	}
	return p.UserID, true
}

// パスの数値IDを取り出す
func parseIDParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// クエリの数値（空ならdef）
func queryInt(c echo.Context, name string, def int) (int, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
