package catalog

import (
	"sort"
	"strings"
	"sync"

	"bookstore/internal/domain/model"
)

// 1冊分のレコード。在庫と価格はこのmuで守る。
type entry struct {
	mu   sync.Mutex
	book model.Book
}

// Catalog は書籍と在庫の正本（インメモリ）。
// idxMuはIDの索引だけを守り、在庫の読み書きは書籍ごとのロックで行う。
type Catalog struct {
	idxMu   sync.RWMutex
	entries map[int64]*entry
	nextID  int64
}

// New は初期データ付きでカタログを作る。
func New(books ...model.Book) (*Catalog, error) {
	c := &Catalog{entries: make(map[int64]*entry, len(books)), nextID: 1}
	for _, b := range books {
		if _, err := c.Add(b); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) lookup(id int64) (*entry, bool) {
	c.idxMu.RLock()
	defer c.idxMu.RUnlock()
	e, ok := c.entries[id]
	return e, ok
}

// IDの昇順で全エントリを返す
func (c *Catalog) sortedEntries() []*entry {
	c.idxMu.RLock()
	ids := make([]int64, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	out := make([]*entry, 0, len(ids))
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		out = append(out, c.entries[id])
	}
	c.idxMu.RUnlock()
	return out
}

func (e *entry) snapshot() model.Book {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book
}

// Get はスナップショット（コピー）を返す。
func (c *Catalog) Get(id int64) (model.Book, error) {
	e, ok := c.lookup(id)
	if !ok {
		return model.Book{}, model.ErrBookNotFound
	}
	return e.snapshot(), nil
}

// List は全書籍をIDの昇順で返す。
func (c *Catalog) List() []model.Book {
	entries := c.sortedEntries()
	out := make([]model.Book, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.snapshot())
	}
	return out
}

// ListByCategory はカテゴリで絞り込む（IDの昇順）。
func (c *Catalog) ListByCategory(cat model.Category) []model.Book {
	entries := c.sortedEntries()
	out := make([]model.Book, 0)
	for _, e := range entries {
		b := e.snapshot()
		if b.Category == cat {
			out = append(out, b)
		}
	}
	return out
}

// 在庫が足りるときだけ減らす。戻り値は減らした後の在庫。
func (c *Catalog) ReserveStock(id int64, qty int64) (int64, error) {
	if qty < 1 {
		return 0, model.ErrInvalidQuantity
	}
	e, ok := c.lookup(id)
	if !ok {
		return 0, model.ErrBookNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reserve(qty)
}

// e.muを持った状態で呼ぶ
func (e *entry) reserve(qty int64) (int64, error) {
	if e.book.Stock < qty {
		return e.book.Stock, &model.StockError{BookID: e.book.ID, Requested: qty, Available: e.book.Stock}
	}
	e.book.Stock -= qty
	return e.book.Stock, nil
}

// SetPrice は価格を更新する（0以上）。
func (c *Catalog) SetPrice(id int64, price int64) (model.Book, error) {
	if price < 0 {
		return model.Book{}, model.ErrInvalidPrice
	}
	e, ok := c.lookup(id)
	if !ok {
		return model.Book{}, model.ErrBookNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.book.Price = price
	return e.book, nil
}

// Restock は在庫をdeltaだけ増減する。結果がマイナスになる場合は何も変えない。
func (c *Catalog) Restock(id int64, delta int64) (model.Book, error) {
	e, ok := c.lookup(id)
	if !ok {
		return model.Book{}, model.ErrBookNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.book.Stock+delta < 0 {
		return e.book, &model.StockError{BookID: id, Requested: -delta, Available: e.book.Stock}
	}
	e.book.Stock += delta
	return e.book, nil
}

// Add は書籍を登録する。IDが0なら採番する。
func (c *Catalog) Add(b model.Book) (model.Book, error) {
	if strings.TrimSpace(b.Title) == "" {
		return model.Book{}, model.ErrInvalidTitle
	}
	if b.Price < 0 {
		return model.Book{}, model.ErrInvalidPrice
	}
	if b.Stock < 0 {
		return model.Book{}, model.ErrInvalidQuantity
	}
	if !b.Category.Valid() {
		return model.Book{}, model.ErrInvalidCategory
	}

	c.idxMu.Lock()
	defer c.idxMu.Unlock()

	if b.ID == 0 {
		b.ID = c.nextID
	}
	if b.ID < 0 {
		return model.Book{}, model.ErrBookNotFound
	}
	if _, exists := c.entries[b.ID]; exists {
		return model.Book{}, model.ErrDuplicateBook
	}
	if b.ISBN != "" {
		for _, e := range c.entries {
			// ISBNは登録後に変わらないのでロック不要
			if e.book.ISBN == b.ISBN {
				return model.Book{}, model.ErrDuplicateBook
			}
		}
	}

	c.entries[b.ID] = &entry{book: b}
	if b.ID >= c.nextID {
		c.nextID = b.ID + 1
	}
	return b, nil
}

// Len は登録冊数（タイトル数）
func (c *Catalog) Len() int {
	c.idxMu.RLock()
	defer c.idxMu.RUnlock()
	return len(c.entries)
}
