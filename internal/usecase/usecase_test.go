package usecase_test

import (
	"context"
	"errors"
	"testing"

	"bookstore/internal/cart"
	"bookstore/internal/catalog"
	"bookstore/internal/checkout"
	"bookstore/internal/infra/memory"
	repo "bookstore/internal/repository"
	"bookstore/internal/usecase"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// Mock: EventPublisher
// =====================

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, v any) error {
	args := m.Called(ctx, routingKey, v)
	return args.Error(0)
}

// 書き込みが常に失敗するTransactionManager
type failingTx struct{}

func (failingTx) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return errors.New("db down")
}

// =====================
// fixture
// =====================

type fixture struct {
	store    *memory.Store
	cat      *catalog.Catalog
	carts    *cart.Store
	pub      *MockPublisher
	catalog  *usecase.CatalogUsecase
	cart     *usecase.CartUsecase
	checkout *usecase.CheckoutUsecase
	orders   *usecase.OrderUsecase
}

// 初期在庫（36冊・各3部）を入れたメモリストアで組み立てる
func newFixture(t *testing.T) *fixture {
	return newFixtureWithTx(t, nil)
}

func newFixtureWithTx(t *testing.T, tx repo.TransactionManager) *fixture {
	t.Helper()

	store := memory.NewStore()
	if tx == nil {
		tx = memory.NewTxManager(store)
	}

	cat, err := usecase.LoadCatalog(context.Background(), store.Books(), true, zerolog.Nop())
	require.NoError(t, err)

	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	carts := cart.NewStore(cat)
	engine := checkout.NewEngine(cat)

	return &fixture{
		store:    store,
		cat:      cat,
		carts:    carts,
		pub:      pub,
		catalog:  usecase.NewCatalogUsecase(cat, tx, store.AuditLogs(), pub, zerolog.Nop()),
		cart:     usecase.NewCartUsecase(carts),
		checkout: usecase.NewCheckoutUsecase(carts, engine, tx, pub, zerolog.Nop()),
		orders:   usecase.NewOrderUsecase(store.Orders()),
	}
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %v", err)
	return he.Status
}
