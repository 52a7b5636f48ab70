package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminRoleGuard はAuthJWTの後ろに置く。未認証は401、ADMIN以外は403。
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if !p.IsAdmin() {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}
			return next(c)
		}
	}
}
