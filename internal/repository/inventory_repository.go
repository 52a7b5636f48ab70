package repository

import (
	"bookstore/internal/domain/model"
	"context"
)

type InventoryRepository interface {
	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
	// 書籍ごとの履歴（新しい順）
	ListByBookID(ctx context.Context, bookID int64, limit int) ([]model.InventoryAdjustment, error)
}
