// Package memory はDBなしで動かすためのリポジトリ実装（DB_DRIVER=memory とテスト用）。
package memory

import (
	"context"
	"sync"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"
)

// Store は全テーブルを持つ。各リポジトリはこのmuを共有する。
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	books     map[int64]model.Book
	orders    []model.Order
	adjs      []model.InventoryAdjustment
	auditLogs []model.AuditLog
	users     []model.User

	nextOrderID int64
	nextItemID  int64
	nextAdjID   int64
	nextAuditID int64
	nextUserID  int64
}

func NewStore() *Store {
	return &Store{
		books:       make(map[int64]model.Book),
		nextOrderID: 1,
		nextItemID:  1,
		nextAdjID:   1,
		nextAuditID: 1,
		nextUserID:  1,
	}
}

func (s *Store) Books() repo.BookRepository          { return &BookRepository{s: s} }
func (s *Store) Orders() repo.OrderRepository        { return &OrderRepository{s: s} }
func (s *Store) Inventory() repo.InventoryRepository { return &InventoryRepository{s: s} }
func (s *Store) AuditLogs() repo.AuditLogRepository  { return &AuditLogRepository{s: s} }
func (s *Store) Users() repo.UserRepository          { return &UserRepository{s: s} }

// 明細スライスは呼び出し側と共有しない
func cloneOrder(o model.Order) model.Order {
	o.Items = append([]model.OrderItem(nil), o.Items...)
	return o
}

// Tx外の書き込みはtxMuも取るので、実行中のTxとは混ざらない
func (s *Store) lockWrite(inTx bool) func() {
	if !inTx {
		s.txMu.Lock()
	}
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		if !inTx {
			s.txMu.Unlock()
		}
	}
}

// Tx中のリポジトリ（txMuは WithinTx が持っている）
type txRepos struct {
	s *Store
}

func (t txRepos) Books() repo.BookRepository          { return &BookRepository{s: t.s, tx: true} }
func (t txRepos) Orders() repo.OrderRepository        { return &OrderRepository{s: t.s, tx: true} }
func (t txRepos) Inventory() repo.InventoryRepository { return &InventoryRepository{s: t.s, tx: true} }
func (t txRepos) AuditLogs() repo.AuditLogRepository  { return &AuditLogRepository{s: t.s, tx: true} }

// Tx開始時点の状態。追記だけのテーブルは件数を覚えて切り詰める。
type savepoint struct {
	books       map[int64]model.Book
	orders      int
	adjs        int
	auditLogs   int
	nextOrderID int64
	nextItemID  int64
	nextAdjID   int64
	nextAuditID int64
}

func (s *Store) save() savepoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make(map[int64]model.Book, len(s.books))
	for id, b := range s.books {
		books[id] = b
	}
	return savepoint{
		books:       books,
		orders:      len(s.orders),
		adjs:        len(s.adjs),
		auditLogs:   len(s.auditLogs),
		nextOrderID: s.nextOrderID,
		nextItemID:  s.nextItemID,
		nextAdjID:   s.nextAdjID,
		nextAuditID: s.nextAuditID,
	}
}

func (s *Store) rollbackTo(sp savepoint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books = sp.books
	s.orders = s.orders[:sp.orders]
	s.adjs = s.adjs[:sp.adjs]
	s.auditLogs = s.auditLogs[:sp.auditLogs]
	s.nextOrderID = sp.nextOrderID
	s.nextItemID = sp.nextItemID
	s.nextAdjID = sp.nextAdjID
	s.nextAuditID = sp.nextAuditID
}

// TxManager はトランザクションを直列化し、エラーかpanicなら開始時点に戻す
type TxManager struct {
	s *Store
}

func NewTxManager(s *Store) *TxManager {
	return &TxManager{s: s}
}

func (tm *TxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) (err error) {
	tm.s.txMu.Lock()
	defer tm.s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	sp := tm.s.save()
	defer func() {
		if p := recover(); p != nil {
			tm.s.rollbackTo(sp)
			panic(p)
		}
		if err != nil {
			tm.s.rollbackTo(sp)
		}
	}()
	return fn(txRepos{s: tm.s})
}
