package repository

import (
	"context"

	repo "bookstore/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	books     repo.BookRepository
	orders    repo.OrderRepository
	inventory repo.InventoryRepository
	auditLogs repo.AuditLogRepository
}

func (r *txReposGorm) Books() repo.BookRepository          { return r.books }
func (r *txReposGorm) Orders() repo.OrderRepository        { return r.orders }
func (r *txReposGorm) Inventory() repo.InventoryRepository { return r.inventory }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository  { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			books:     NewBookGormRepository(tx),
			orders:    NewOrderGormRepository(tx),
			inventory: NewInventoryGormRepository(tx),
			auditLogs: NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
