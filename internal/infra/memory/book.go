package memory

import (
	"context"
	"sort"
	"time"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"
)

type BookRepository struct {
	s  *Store
	tx bool // WithinTx の中から使うとき true
}

func (r *BookRepository) ListAll(ctx context.Context) ([]model.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Book, 0, len(r.s.books))
	for _, b := range r.s.books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *BookRepository) FindByID(ctx context.Context, id int64) (model.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.books[id]
	if !ok {
		return model.Book{}, repo.ErrNotFound
	}
	return b, nil
}

func (r *BookRepository) Save(ctx context.Context, b model.Book) error {
	defer r.s.lockWrite(r.tx)()

	now := time.Now()
	if old, ok := r.s.books[b.ID]; ok {
		b.CreatedAt = old.CreatedAt
	} else if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	r.s.books[b.ID] = b
	return nil
}

func (r *BookRepository) UpdatePrice(ctx context.Context, id int64, price int64) error {
	return r.update(id, func(b *model.Book) { b.Price = price })
}

func (r *BookRepository) AdjustStock(ctx context.Context, id int64, delta int64) error {
	return r.update(id, func(b *model.Book) { b.Stock += delta })
}

func (r *BookRepository) update(id int64, fn func(b *model.Book)) error {
	defer r.s.lockWrite(r.tx)()

	row, ok := r.s.books[id]
	if !ok {
		return repo.ErrNotFound
	}
	fn(&row)
	row.UpdatedAt = time.Now()
	r.s.books[id] = row
	return nil
}

func (r *BookRepository) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.books)), nil
}
