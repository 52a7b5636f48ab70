package handler

import (
	"errors"
	"net/http"

	auth "bookstore/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase // 会員登録usecase
	loginUC    *auth.LoginUsecase        // ログインusecase
}

// DIコンストラクタ
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
	}
}

// /api/signup のリクエストボディ。
type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// /api/login のリクエストボディ。
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/signup", h.Register)
	e.POST("/api/login", h.Login)
}

// RegisterはPOST /api/signupのハンドラ
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "VALIDATION_ERROR"})
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidUsername),
			errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, auth.ErrWeakPassword):
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "VALIDATION_ERROR"})
		case errors.Is(err, auth.ErrUsernameAlreadyExists):
			return c.JSON(http.StatusConflict, ErrorResponse{Error: "CONFLICT"})
		default:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "INTERNAL"})
		}
	}

	return c.JSON(http.StatusCreated, out)
}

// LoginはPOST /api/login のハンドラ。
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "VALIDATION_ERROR"})
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "UNAUTHORIZED"})
		case errors.Is(err, auth.ErrUserInactive):
			return c.JSON(http.StatusForbidden, ErrorResponse{Error: "FORBIDDEN"})
		default:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "INTERNAL"})
		}
	}

	//JSONレスポンス（user + token）
	return c.JSON(http.StatusOK, out)
}
