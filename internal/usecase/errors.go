package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"bookstore/internal/domain/model"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// ドメインのエラーをHTTPErrorに寄せる。知らないものは500。
func fromDomainError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, model.ErrBookNotFound):
		return NewHTTPError(http.StatusNotFound, "book not found")
	case errors.Is(err, model.ErrInvalidQuantity):
		return NewHTTPError(http.StatusBadRequest, "invalid quantity")
	case errors.Is(err, model.ErrInvalidPrice):
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	case errors.Is(err, model.ErrInvalidCategory):
		return NewHTTPError(http.StatusBadRequest, "invalid category")
	case errors.Is(err, model.ErrInvalidTitle):
		return NewHTTPError(http.StatusBadRequest, "title required")
	case errors.Is(err, model.ErrDuplicateBook):
		return NewHTTPError(http.StatusConflict, "book already exists")
	case errors.Is(err, model.ErrInsufficientStock):
		return NewHTTPError(http.StatusConflict, "insufficient stock")
	default:
		if he, ok := AsHTTPError(err); ok {
			return he
		}
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
