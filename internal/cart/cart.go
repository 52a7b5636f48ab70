package cart

import (
	"errors"
	"fmt"
	"sync"

	"bookstore/internal/domain/model"
)

// BookReader はカタログの読み取り口（catalog.Catalog が満たす）
type BookReader interface {
	Get(id int64) (model.Book, error)
}

// Item はカタログの現在値で引き直した明細
type Item struct {
	Book      model.Book `json:"book"`
	Quantity  int64      `json:"quantity"`
	LineTotal int64      `json:"line_total"`
}

// Snapshot は表示用のカート内容。Missing はカタログから消えた書籍ID。
type Snapshot struct {
	Items   []Item  `json:"items"`
	Total   int64   `json:"total"`
	Missing []int64 `json:"missing,omitempty"`
}

// MaxLineQuantity は1明細あたりの上限
const MaxLineQuantity int64 = 9999

// Cart は1セッション分のカート。価格や在庫は持たず、読むたびにカタログを引く。
type Cart struct {
	mu    sync.Mutex
	books BookReader
	order []int64
	qty   map[int64]int64
}

func New(books BookReader) *Cart {
	return &Cart{books: books, qty: make(map[int64]int64)}
}

// AddItem は同じ書籍なら数量を足す。在庫は見ない（checkoutで判定する）。
func (c *Cart) AddItem(bookID int64, quantity int64) error {
	if quantity < 1 || quantity > MaxLineQuantity {
		return model.ErrInvalidQuantity
	}
	if _, err := c.books.Get(bookID); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.qty[bookID]; ok {
		if quantity > MaxLineQuantity-cur {
			return model.ErrInvalidQuantity
		}
		c.qty[bookID] = cur + quantity
		return nil
	}
	c.order = append(c.order, bookID)
	c.qty[bookID] = quantity
	return nil
}

// RemoveItem は無ければ何もしない
func (c *Cart) RemoveItem(bookID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(bookID)
}

func (c *Cart) removeLocked(bookID int64) {
	if _, ok := c.qty[bookID]; !ok {
		return
	}
	delete(c.qty, bookID)
	for i, id := range c.order {
		if id == bookID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// SetQuantity は0なら削除。上限を超える数量は ErrInvalidQuantity。カートに無い書籍は新しく追加する。
func (c *Cart) SetQuantity(bookID int64, quantity int64) error {
	if quantity < 0 || quantity > MaxLineQuantity {
		return model.ErrInvalidQuantity
	}
	if quantity == 0 {
		c.RemoveItem(bookID)
		return nil
	}
	if _, err := c.books.Get(bookID); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.qty[bookID]; !ok {
		c.order = append(c.order, bookID)
	}
	c.qty[bookID] = quantity
	return nil
}

// Lines は追加順の明細のコピー
func (c *Cart) Lines() []model.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.linesLocked()
}

func (c *Cart) linesLocked() []model.CartLine {
	out := make([]model.CartLine, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, model.CartLine{BookID: id, Quantity: c.qty[id]})
	}
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// Snapshot は追加順に現在のカタログ値で明細を組み立てる。
func (c *Cart) Snapshot() (Snapshot, error) {
	lines := c.Lines()

	snap := Snapshot{Items: make([]Item, 0, len(lines))}
	for _, l := range lines {
		b, err := c.books.Get(l.BookID)
		if errors.Is(err, model.ErrBookNotFound) {
			snap.Missing = append(snap.Missing, l.BookID)
			continue
		}
		if err != nil {
			return Snapshot{}, err
		}
		lt := b.Price * l.Quantity
		snap.Items = append(snap.Items, Item{Book: b, Quantity: l.Quantity, LineTotal: lt})
		snap.Total += lt
	}
	return snap, nil
}

// Total は現在価格での合計。解決できない書籍があればエラー。
func (c *Cart) Total() (int64, error) {
	var total int64
	for _, l := range c.Lines() {
		b, err := c.books.Get(l.BookID)
		if err != nil {
			return 0, fmt.Errorf("book %d: %w", l.BookID, err)
		}
		total += b.Price * l.Quantity
	}
	return total, nil
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = nil
	c.qty = make(map[int64]int64)
}

// Settle はカートをロックしたまま fn を実行し、成功したときだけ空にする。
// 実行中は同じセッションからの追加・削除は待たされる。
func (c *Cart) Settle(fn func(lines []model.CartLine) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := fn(c.linesLocked()); err != nil {
		return err
	}
	c.order = nil
	c.qty = make(map[int64]int64)
	return nil
}
