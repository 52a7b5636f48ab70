package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"bookstore/internal/config"
	"bookstore/internal/domain/model"
	"bookstore/internal/infra/db"
	repo "bookstore/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Connect(config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "repo.db"),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func TestSQLite_BookSaveIsUpsert(t *testing.T) {
	gdb := newSQLiteDB(t)
	books := NewBookGormRepository(gdb)
	ctx := context.Background()

	b := model.Book{ID: 20, ISBN: "9781123456796", Title: "Dune", Author: "Frank Herbert", Price: 1600, Category: model.CategoryFiction, Stock: 3}
	require.NoError(t, books.Save(ctx, b))

	b.Price = 1500
	require.NoError(t, books.Save(ctx, b))

	n, err := books.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := books.FindByID(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), got.Price)

	require.NoError(t, books.AdjustStock(ctx, 20, -2))
	require.NoError(t, books.AdjustStock(ctx, 20, 5))
	got, err = books.FindByID(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(6), got.Stock)

	assert.ErrorIs(t, books.AdjustStock(ctx, 404, 1), repo.ErrNotFound)
}

func TestSQLite_OrderWithItems(t *testing.T) {
	gdb := newSQLiteDB(t)
	orders := NewOrderGormRepository(gdb)
	ctx := context.Background()

	for i, num := range []string{"order-a", "order-b"} {
		o := &model.Order{
			Number:     num,
			UserID:     1,
			Status:     model.OrderStatusConfirmed,
			TotalPrice: int64(1600 * (i + 1)),
			Items: []model.OrderItem{
				{BookID: 20, TitleSnapshot: "Dune", UnitPriceSnapshot: 1600, Quantity: int64(i + 1)},
			},
		}
		require.NoError(t, orders.Create(ctx, o))
		assert.NotZero(t, o.ID)
	}

	items, total, err := orders.ListByUserID(ctx, 1, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, "order-b", items[0].Number)
	require.Len(t, items[0].Items, 1)
	assert.Equal(t, int64(2), items[0].Items[0].Quantity)

	found, err := orders.FindByNumber(ctx, "order-a")
	require.NoError(t, err)
	assert.Equal(t, "Dune", found.Items[0].TitleSnapshot)

	_, err = orders.FindByNumber(ctx, "nope")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	other, total, err := orders.ListByUserID(ctx, 2, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, other)
}

// fnがエラーを返したら全部戻る
func TestSQLite_TxManagerRollsBack(t *testing.T) {
	gdb := newSQLiteDB(t)
	ctx := context.Background()
	books := NewBookGormRepository(gdb)
	require.NoError(t, books.Save(ctx, model.Book{ID: 1, Title: "x", Price: 100, Category: model.CategoryAcademic, Stock: 3}))

	tm := NewTxManagerGorm(gdb)
	boom := errors.New("boom")
	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Books().AdjustStock(ctx, 1, -1); err != nil {
			return err
		}
		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{BookID: 1, ActorUserID: 1, Delta: -1, StockAfter: 2, Reason: "test"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := books.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Stock)

	adjs, err := NewInventoryGormRepository(gdb).ListByBookID(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, adjs)

	// 成功時は残る
	require.NoError(t, tm.WithinTx(ctx, func(r repo.TxRepos) error {
		return r.Books().AdjustStock(ctx, 1, -1)
	}))
	got, err = books.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Stock)
}

func TestSQLite_AuditLogFilter(t *testing.T) {
	gdb := newSQLiteDB(t)
	logs := NewAuditLogGormRepository(gdb)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	entries := []model.AuditLog{
		{ActorUserID: 1, Action: model.AuditActionCreateBook, ResourceType: model.AuditResourceBook, ResourceID: 37, CreatedAt: base},
		{ActorUserID: 1, Action: model.AuditActionUpdatePrice, ResourceType: model.AuditResourceBook, ResourceID: 20, CreatedAt: base.Add(time.Hour)},
		{ActorUserID: 2, Action: model.AuditActionRestock, ResourceType: model.AuditResourceBook, ResourceID: 20, CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, e := range entries {
		require.NoError(t, logs.Create(ctx, e))
	}

	all, err := logs.List(ctx, repo.AuditLogFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, model.AuditActionRestock, all[0].Action)

	id := int64(20)
	byBook, err := logs.List(ctx, repo.AuditLogFilter{ResourceID: &id})
	require.NoError(t, err)
	assert.Len(t, byBook, 2)

	from := base.Add(30 * time.Minute)
	to := base.Add(90 * time.Minute)
	window, err := logs.List(ctx, repo.AuditLogFilter{CreatedFrom: &from, CreatedTo: &to})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, model.AuditActionUpdatePrice, window[0].Action)

	paged, err := logs.List(ctx, repo.AuditLogFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, model.AuditActionUpdatePrice, paged[0].Action)
}

func TestSQLite_UserDuplicate(t *testing.T) {
	gdb := newSQLiteDB(t)
	users := NewUserGormRepository(gdb)
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, &model.User{Username: "alice", PasswordHash: "h", Role: model.RoleUser, IsActive: true}))
	err := users.Create(ctx, &model.User{Username: "alice", PasswordHash: "h", Role: model.RoleUser, IsActive: true})
	assert.ErrorIs(t, err, repo.ErrDuplicateUsername)

	u, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, u)

	u.IsActive = false
	require.NoError(t, users.Update(ctx, u))
	again, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, again.IsActive)
}
