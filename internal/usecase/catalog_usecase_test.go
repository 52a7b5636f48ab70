package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"
	"bookstore/internal/usecase"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog_SeedsEmptyStore(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, 36, f.cat.Len())
	n, err := f.store.Books().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(36), n)
}

// 2回目の起動では保存済みの在庫を使う
func TestLoadCatalog_UsesPersistedStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Books().AdjustStock(ctx, 20, -2))

	cat, err := usecase.LoadCatalog(ctx, f.store.Books(), true, zerolog.Nop())
	require.NoError(t, err)

	b, err := cat.Get(20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.Stock)
	assert.Equal(t, 36, cat.Len())
}

func TestListBooks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	all, err := f.catalog.ListBooks(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 36)

	for _, q := range []string{"Fiction", "fiction", "0"} {
		fiction, err := f.catalog.ListBooks(ctx, q)
		require.NoError(t, err)
		require.Len(t, fiction, 12)
		for i, b := range fiction {
			assert.Equal(t, model.CategoryFiction, b.Category)
			if i > 0 {
				assert.Less(t, fiction[i-1].ID, b.ID)
			}
		}
	}

	_, err = f.catalog.ListBooks(ctx, "Poetry")
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestGetBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.catalog.GetBook(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, "Dune", b.Title)
	assert.Contains(t, b.Description, "$16.00")

	_, err = f.catalog.GetBook(ctx, 999)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))

	_, err = f.catalog.GetBook(ctx, 0)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestAdminCreateBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.catalog.AdminCreateBook(ctx, 1, usecase.AdminCreateBookInput{
		ISBN:     "9780000000001",
		Title:    " New Book ",
		Author:   "Someone",
		Price:    1250,
		Category: "academic",
		Stock:    4,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(37), out.ID)
	assert.Equal(t, "New Book", out.Title)
	assert.Equal(t, model.CategoryAcademic, out.Category)

	// カタログとDBの両方に入る
	got, err := f.cat.Get(37)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Stock)

	saved, err := f.store.Books().FindByID(ctx, 37)
	require.NoError(t, err)
	assert.Equal(t, int64(1250), saved.Price)

	adjs, err := f.store.Inventory().ListByBookID(ctx, 37, 10)
	require.NoError(t, err)
	require.Len(t, adjs, 1)
	assert.Equal(t, int64(4), adjs[0].Delta)

	action := model.AuditActionCreateBook
	logs, err := f.catalog.ListAuditLogs(ctx, repo.AuditLogFilter{Action: &action})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, int64(37), logs[0].ResourceID)

	f.pub.AssertCalled(t, "Publish", mock.Anything, usecase.RoutingBookCreated, mock.Anything)
}

func TestAdminCreateBook_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   usecase.AdminCreateBookInput
		want int
	}{
		{"no title", usecase.AdminCreateBookInput{Title: " ", Category: "Fiction"}, http.StatusBadRequest},
		{"negative price", usecase.AdminCreateBookInput{Title: "x", Price: -1, Category: "Fiction"}, http.StatusBadRequest},
		{"negative stock", usecase.AdminCreateBookInput{Title: "x", Stock: -1, Category: "Fiction"}, http.StatusBadRequest},
		{"bad isbn", usecase.AdminCreateBookInput{Title: "x", Category: "Fiction", ISBN: "12-34"}, http.StatusBadRequest},
		{"bad category", usecase.AdminCreateBookInput{Title: "x", Category: "Poetry"}, http.StatusBadRequest},
		{"duplicate isbn", usecase.AdminCreateBookInput{Title: "x", Category: "Fiction", ISBN: mustBook(t, f, 20).ISBN}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.catalog.AdminCreateBook(ctx, 1, tt.in)
			assert.Equal(t, tt.want, httpStatus(t, err))
		})
	}
	assert.Equal(t, 36, f.cat.Len())
}

func mustBook(t *testing.T, f *fixture, id int64) model.Book {
	t.Helper()
	b, err := f.cat.Get(id)
	require.NoError(t, err)
	return b
}

func TestAdminUpdatePrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.catalog.AdminUpdatePrice(ctx, 1, 20, 999)
	require.NoError(t, err)
	assert.Equal(t, int64(999), out.Price)
	assert.Equal(t, int64(999), mustBook(t, f, 20).Price)

	saved, err := f.store.Books().FindByID(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(999), saved.Price)

	logs, err := f.catalog.ListAuditLogs(ctx, repo.AuditLogFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, `{"price":1600}`, logs[0].BeforeJSON)
	assert.Equal(t, `{"price":999}`, logs[0].AfterJSON)

	_, err = f.catalog.AdminUpdatePrice(ctx, 1, 20, -5)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))

	_, err = f.catalog.AdminUpdatePrice(ctx, 1, 404, 100)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestAdminRestock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.catalog.AdminRestock(ctx, 1, 20, 5, "")
	require.NoError(t, err)
	assert.Equal(t, int64(8), out.Stock)

	saved, err := f.store.Books().FindByID(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(8), saved.Stock)

	adjs, err := f.store.Inventory().ListByBookID(ctx, 20, 10)
	require.NoError(t, err)
	require.Len(t, adjs, 1)
	assert.Equal(t, "restock", adjs[0].Reason)
	assert.Equal(t, int64(8), adjs[0].StockAfter)

	// 在庫がマイナスになる補正は拒否（何も変わらない）
	_, err = f.catalog.AdminRestock(ctx, 1, 20, -9, "count fix")
	assert.Equal(t, http.StatusConflict, httpStatus(t, err))
	assert.Equal(t, int64(8), mustBook(t, f, 20).Stock)

	_, err = f.catalog.AdminRestock(ctx, 1, 20, 0, "")
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

// DBへの書き込みが失敗してもカタログの変更は有効
func TestAdminRestock_PersistFailureIsLogged(t *testing.T) {
	f := newFixtureWithTx(t, failingTx{})

	out, err := f.catalog.AdminRestock(context.Background(), 1, 20, 2, "")
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.Stock)
	assert.Equal(t, int64(5), mustBook(t, f, 20).Stock)
}
