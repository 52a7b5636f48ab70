package memory

import (
	"context"
	"time"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"
)

type OrderRepository struct {
	s  *Store
	tx bool // WithinTx の中から使うとき true
}

func (r *OrderRepository) Create(ctx context.Context, order *model.Order) error {
	defer r.s.lockWrite(r.tx)()

	for _, o := range r.s.orders {
		if o.Number == order.Number {
			return repo.ErrDuplicateOrderNumber
		}
	}

	order.ID = r.s.nextOrderID
	r.s.nextOrderID++
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	for i := range order.Items {
		order.Items[i].ID = r.s.nextItemID
		order.Items[i].OrderID = order.ID
		order.Items[i].CreatedAt = order.CreatedAt
		r.s.nextItemID++
	}

	r.s.orders = append(r.s.orders, cloneOrder(*order))
	return nil
}

// 新しい順
func (r *OrderRepository) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var mine []model.Order
	for i := len(r.s.orders) - 1; i >= 0; i-- {
		if r.s.orders[i].UserID == userID {
			mine = append(mine, cloneOrder(r.s.orders[i]))
		}
	}

	total := int64(len(mine))
	start := (page - 1) * limit
	if start >= len(mine) {
		return []model.Order{}, total, nil
	}
	end := start + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[start:end], total, nil
}

func (r *OrderRepository) FindByNumber(ctx context.Context, number string) (model.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, o := range r.s.orders {
		if o.Number == number {
			return cloneOrder(o), nil
		}
	}
	return model.Order{}, repo.ErrNotFound
}
