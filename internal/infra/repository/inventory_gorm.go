package repository

import (
	"context"

	"bookstore/internal/domain/model"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// 調整履歴作成
func (r *InventoryGormRepository) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	if err := r.db.WithContext(ctx).Create(&adj).Error; err != nil {
		return err
	}
	return nil
}

// 新しい順
func (r *InventoryGormRepository) ListByBookID(ctx context.Context, bookID int64, limit int) ([]model.InventoryAdjustment, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var adjs []model.InventoryAdjustment
	err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Order("id desc").
		Limit(limit).
		Find(&adjs).Error
	if err != nil {
		return []model.InventoryAdjustment{}, err
	}
	return adjs, nil
}
