package catalog

import (
	"sort"

	"bookstore/internal/domain/model"
)

// Batch は複数冊のロックをまとめて持つ。checkoutのコミットで使う。
// Unlockするまで他のReserveStock/SetPrice/Restockは待たされる。
type Batch struct {
	entries map[int64]*entry
	order   []*entry
	done    bool
}

// LockBooks は重複を除いたIDを昇順でロックする（デッドロック防止）。
// 見つからないIDがあれば何もロックせず ErrBookNotFound を返す。
func (c *Catalog) LockBooks(ids []int64) (*Batch, error) {
	uniq := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })

	b := &Batch{entries: make(map[int64]*entry, len(uniq)), order: make([]*entry, 0, len(uniq))}
	c.idxMu.RLock()
	for _, id := range uniq {
		e, ok := c.entries[id]
		if !ok {
			c.idxMu.RUnlock()
			return nil, model.ErrBookNotFound
		}
		b.entries[id] = e
		b.order = append(b.order, e)
	}
	c.idxMu.RUnlock()

	for _, e := range b.order {
		e.mu.Lock()
	}
	return b, nil
}

// Book はロック中の書籍のコピーを返す
func (b *Batch) Book(id int64) (model.Book, error) {
	e, ok := b.entries[id]
	if !ok {
		return model.Book{}, model.ErrBookNotFound
	}
	return e.book, nil
}

// Reserve はロック中の書籍の在庫を条件付きで減らす
func (b *Batch) Reserve(id int64, qty int64) (int64, error) {
	if qty < 1 {
		return 0, model.ErrInvalidQuantity
	}
	e, ok := b.entries[id]
	if !ok {
		return 0, model.ErrBookNotFound
	}
	return e.reserve(qty)
}

// Release はReserveの取り消し（ロールバック用）
func (b *Batch) Release(id int64, qty int64) {
	if e, ok := b.entries[id]; ok && qty > 0 {
		e.book.Stock += qty
	}
}

// Unlock は取得と逆順に解放する。2回目以降は何もしない。
func (b *Batch) Unlock() {
	if b.done {
		return
	}
	b.done = true
	for i := len(b.order) - 1; i >= 0; i-- {
		b.order[i].mu.Unlock()
	}
}
