package repository

import (
	"context"
	"errors"

	"bookstore/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 書籍の永続化。正本はインメモリのカタログで、ここは書き込み先と起動時の読み込み元。
type BookRepository interface {
	//全件（ID昇順）
	ListAll(ctx context.Context) ([]model.Book, error)
	FindByID(ctx context.Context, id int64) (model.Book, error)
	//IDが同じなら上書き
	Save(ctx context.Context, b model.Book) error
	UpdatePrice(ctx context.Context, id int64, price int64) error
	//差分で増減する（同時に書いても順序に依存しない）
	AdjustStock(ctx context.Context, id int64, delta int64) error
	Count(ctx context.Context) (int64, error)
}
