package usecase

import (
	"context"
	"net/http"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"
)

type OrderUsecase struct {
	orders repo.OrderRepository
}

func NewOrderUsecase(orders repo.OrderRepository) *OrderUsecase {
	return &OrderUsecase{orders: orders}
}

type OrderListOutput struct {
	Items []model.Order `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// 自分の注文履歴（新しい順）
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.orders.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return OrderListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}
