package memory

import (
	"context"
	"time"

	"bookstore/internal/domain/model"
)

type InventoryRepository struct {
	s  *Store
	tx bool // WithinTx の中から使うとき true
}

func (r *InventoryRepository) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	defer r.s.lockWrite(r.tx)()

	adj.ID = r.s.nextAdjID
	r.s.nextAdjID++
	if adj.CreatedAt.IsZero() {
		adj.CreatedAt = time.Now()
	}
	r.s.adjs = append(r.s.adjs, adj)
	return nil
}

func (r *InventoryRepository) ListByBookID(ctx context.Context, bookID int64, limit int) ([]model.InventoryAdjustment, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []model.InventoryAdjustment{}
	for i := len(r.s.adjs) - 1; i >= 0 && len(out) < limit; i-- {
		if r.s.adjs[i].BookID == bookID {
			out = append(out, r.s.adjs[i])
		}
	}
	return out, nil
}
