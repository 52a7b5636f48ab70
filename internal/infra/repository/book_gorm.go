package repository

import (
	"context"
	"errors"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookGormRepository struct {
	db *gorm.DB
}

// DI
func NewBookGormRepository(db *gorm.DB) *BookGormRepository {
	return &BookGormRepository{db: db}
}

// 全件をID昇順で返す（起動時にカタログへ読み込む）
func (r *BookGormRepository) ListAll(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	if err := r.db.WithContext(ctx).Order("id asc").Find(&books).Error; err != nil {
		return []model.Book{}, err
	}
	return books, nil
}

// IDで書籍を取得
func (r *BookGormRepository) FindByID(ctx context.Context, id int64) (model.Book, error) {
	var b model.Book
	err := r.db.WithContext(ctx).First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Book{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Book{}, err
	}
	return b, nil
}

// IDが衝突したら全列を上書き
func (r *BookGormRepository) Save(ctx context.Context, b model.Book) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&b).Error
}

func (r *BookGormRepository) UpdatePrice(ctx context.Context, id int64, price int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ?", id).
		Update("price", price)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 在庫を差分で更新（カタログ側で確定済みの増減を反映する）
func (r *BookGormRepository) AdjustStock(ctx context.Context, id int64, delta int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *BookGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Book{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
