package memory

import (
	"context"
	"testing"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ repo.TxRepos = (*Store)(nil)
var _ repo.TxRepos = txRepos{}
var _ repo.TransactionManager = (*TxManager)(nil)

func TestBookRepository(t *testing.T) {
	s := NewStore()
	books := s.Books()
	ctx := context.Background()

	require.NoError(t, books.Save(ctx, model.Book{ID: 2, Title: "b", Stock: 1}))
	require.NoError(t, books.Save(ctx, model.Book{ID: 1, Title: "a", Stock: 3}))

	all, err := books.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].ID)

	require.NoError(t, books.AdjustStock(ctx, 1, -2))
	require.NoError(t, books.UpdatePrice(ctx, 1, 700))
	got, err := books.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Stock)
	assert.Equal(t, int64(700), got.Price)

	_, err = books.FindByID(ctx, 9)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.ErrorIs(t, books.AdjustStock(ctx, 9, 1), repo.ErrNotFound)

	n, err := books.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestOrderRepository(t *testing.T) {
	s := NewStore()
	orders := s.Orders()
	ctx := context.Background()

	o := &model.Order{Number: "n1", UserID: 1, Items: []model.OrderItem{{BookID: 1, Quantity: 2}}}
	require.NoError(t, orders.Create(ctx, o))
	assert.Equal(t, int64(1), o.ID)
	assert.Equal(t, o.ID, o.Items[0].OrderID)

	assert.ErrorIs(t, orders.Create(ctx, &model.Order{Number: "n1", UserID: 1}), repo.ErrDuplicateOrderNumber)

	require.NoError(t, orders.Create(ctx, &model.Order{Number: "n2", UserID: 1}))
	require.NoError(t, orders.Create(ctx, &model.Order{Number: "n3", UserID: 2}))

	mine, total, err := orders.ListByUserID(ctx, 1, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "n2", mine[0].Number)

	// 返した明細を書き換えても保存値は変わらない
	found, err := orders.FindByNumber(ctx, "n1")
	require.NoError(t, err)
	found.Items[0].Quantity = 99
	again, err := orders.FindByNumber(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), again.Items[0].Quantity)

	empty, _, err := orders.ListByUserID(ctx, 1, 5, 20)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAuditLogRepository_Filter(t *testing.T) {
	s := NewStore()
	logs := s.AuditLogs()
	ctx := context.Background()

	require.NoError(t, logs.Create(ctx, model.AuditLog{ActorUserID: 1, Action: model.AuditActionCreateBook, ResourceID: 1}))
	require.NoError(t, logs.Create(ctx, model.AuditLog{ActorUserID: 2, Action: model.AuditActionRestock, ResourceID: 1}))
	require.NoError(t, logs.Create(ctx, model.AuditLog{ActorUserID: 2, Action: model.AuditActionRestock, ResourceID: 2}))

	action := model.AuditActionRestock
	got, err := logs.List(ctx, repo.AuditLogFilter{Action: &action})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ResourceID)

	actor := int64(1)
	got, err = logs.List(ctx, repo.AuditLogFilter{ActorUserID: &actor})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = logs.List(ctx, repo.AuditLogFilter{Limit: 1, Offset: 2})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.AuditActionCreateBook, got[0].Action)
}

func TestUserRepository(t *testing.T) {
	s := NewStore()
	users := s.Users()
	ctx := context.Background()

	u := &model.User{Username: "alice", Role: model.RoleUser}
	require.NoError(t, users.Create(ctx, u))
	assert.Equal(t, int64(1), u.ID)
	assert.ErrorIs(t, users.Create(ctx, &model.User{Username: "ALICE"}), repo.ErrDuplicateUsername)

	got, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)

	missing, err := users.FindByID(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, missing)

	got.Role = model.RoleAdmin
	require.NoError(t, users.Update(ctx, got))
	again, err := users.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, again.Role)

	assert.ErrorIs(t, users.Update(ctx, &model.User{ID: 42}), repo.ErrUserNotFound)
}

func TestTxManager_CanceledContext(t *testing.T) {
	tm := NewTxManager(NewStore())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	s := NewStore()
	tm := NewTxManager(s)
	ctx := context.Background()
	require.NoError(t, s.Books().Save(ctx, model.Book{ID: 1, Title: "a", Price: 100, Stock: 3}))

	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		require.NoError(t, r.Books().UpdatePrice(ctx, 1, 999))
		require.NoError(t, r.Books().AdjustStock(ctx, 1, -2))
		require.NoError(t, r.Books().Save(ctx, model.Book{ID: 2, Title: "b"}))
		require.NoError(t, r.Orders().Create(ctx, &model.Order{Number: "n-1", UserID: 1, Items: []model.OrderItem{{BookID: 1, Quantity: 2}}}))
		require.NoError(t, r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{BookID: 1, Delta: -2}))
		require.NoError(t, r.AuditLogs().Create(ctx, model.AuditLog{Action: model.AuditActionRestock}))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	b, err := s.Books().FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), b.Price)
	assert.Equal(t, int64(3), b.Stock)
	_, err = s.Books().FindByID(ctx, 2)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	_, err = s.Orders().FindByNumber(ctx, "n-1")
	assert.Error(t, err)
	adjs, err := s.Inventory().ListByBookID(ctx, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, adjs)
	logs, err := s.AuditLogs().List(ctx, repo.AuditLogFilter{})
	require.NoError(t, err)
	assert.Empty(t, logs)

	// 採番も巻き戻る
	o := model.Order{Number: "n-2", UserID: 1}
	require.NoError(t, s.Orders().Create(ctx, &o))
	assert.Equal(t, int64(1), o.ID)
}

func TestTxManager_CommitsOnSuccess(t *testing.T) {
	s := NewStore()
	tm := NewTxManager(s)
	ctx := context.Background()
	require.NoError(t, s.Books().Save(ctx, model.Book{ID: 1, Title: "a", Stock: 3}))

	require.NoError(t, tm.WithinTx(ctx, func(r repo.TxRepos) error {
		return r.Books().AdjustStock(ctx, 1, -1)
	}))

	b, err := s.Books().FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), b.Stock)
}

func TestTxManager_RollsBackOnPanic(t *testing.T) {
	s := NewStore()
	tm := NewTxManager(s)
	ctx := context.Background()
	require.NoError(t, s.Books().Save(ctx, model.Book{ID: 1, Title: "a", Stock: 3}))

	assert.Panics(t, func() {
		_ = tm.WithinTx(ctx, func(r repo.TxRepos) error {
			_ = r.Books().AdjustStock(ctx, 1, -3)
			panic("boom")
		})
	})

	b, err := s.Books().FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), b.Stock)

	// txMuが解放されていること
	require.NoError(t, s.Books().AdjustStock(ctx, 1, -1))
}
