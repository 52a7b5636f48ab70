package middleware

import (
	"net/http"
	"strings"

	"bookstore/internal/config"
	"bookstore/internal/domain/model"
	auth "bookstore/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

const ctxPrincipalKey = "principal"

// Principal はトークンから取り出したログイン中のユーザー
type Principal struct {
	UserID   int64
	Role     model.Role
	Username string
}

func (p Principal) IsAdmin() bool { return p.Role == model.RoleAdmin }

// PrincipalFrom はAuthJWTが載せた値を返す。未認証ならfalse。
func PrincipalFrom(c echo.Context) (Principal, bool) {
	p, ok := c.Get(ctxPrincipalKey).(Principal)
	if !ok || p.UserID <= 0 {
		return Principal{}, false
	}
	return p, true
}

// Authorization: Bearer <token> を検証してPrincipalをcontextに載せる
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	secret := []byte(cfg.JWTSecret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			claims, err := auth.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			userID, _ := claims.UserID()

			c.Set(ctxPrincipalKey, Principal{
				UserID:   userID,
				Role:     claims.Role,
				Username: claims.Username,
			})
			return next(c)
		}
	}
}

// スキームは大文字小文字を区別しない
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
