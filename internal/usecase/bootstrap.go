package usecase

import (
	"context"
	"fmt"

	"bookstore/internal/catalog"
	repo "bookstore/internal/repository"

	"github.com/rs/zerolog"
)

// LoadCatalog は保存済みの書籍からカタログを組み立てる。
// 空で seed=true のときは初期在庫を保存してから使う。
func LoadCatalog(ctx context.Context, books repo.BookRepository, seed bool, log zerolog.Logger) (*catalog.Catalog, error) {
	n, err := books.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	if n == 0 && seed {
		for _, b := range catalog.DefaultBooks() {
			if err := books.Save(ctx, b); err != nil {
				return nil, fmt.Errorf("seed book %d: %w", b.ID, err)
			}
		}
		log.Info().Int("books", len(catalog.DefaultBooks())).Msg("seeded catalog")
	}

	all, err := books.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	cat, err := catalog.New(all...)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	log.Info().Int("books", cat.Len()).Msg("catalog loaded")
	return cat, nil
}
