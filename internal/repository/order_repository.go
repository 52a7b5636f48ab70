package repository

import (
	"context"
	"errors"

	"bookstore/internal/domain/model"
)

type OrderRepository interface {
	//明細ごと保存する。IDが埋まる。
	Create(ctx context.Context, order *model.Order) error
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	FindByNumber(ctx context.Context, number string) (model.Order, error)
}

var ErrDuplicateOrderNumber = errors.New("order number already exists")
