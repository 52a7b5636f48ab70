package checkout

import (
	"errors"

	"bookstore/internal/catalog"
	"bookstore/internal/domain/model"

	"github.com/rs/zerolog"
)

// Inventory はcheckoutが使うカタログ操作（catalog.Catalog が満たす）
type Inventory interface {
	Get(id int64) (model.Book, error)
	LockBooks(ids []int64) (*catalog.Batch, error)
}

// Settler はロックしたまま明細を渡し、成功時だけ空になるカート（cart.Cart が満たす）
type Settler interface {
	Settle(fn func(lines []model.CartLine) error) error
}

const StatusOK = "ok"

type ReceiptItem struct {
	BookID     int64  `json:"book_id"`
	Title      string `json:"title"`
	UnitPrice  int64  `json:"unit_price"`
	Quantity   int64  `json:"quantity"`
	LineTotal  int64  `json:"line_total"`
	StockAfter int64  `json:"-"` // 減らした後の在庫（永続化用）
}

// Receipt は確定したcheckoutの結果。単価はコミット時点のもの。
type Receipt struct {
	Status  string        `json:"status"`
	Charged int64         `json:"charged"`
	Items   []ReceiptItem `json:"items"`
}

type Option func(*Engine)

// WithTransitionHook は状態遷移ごとに呼ばれる関数を登録する
func WithTransitionHook(fn func(from, to State)) Option {
	return func(e *Engine) { e.onTransition = fn }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

type Engine struct {
	inv          Inventory
	log          zerolog.Logger
	onTransition func(from, to State)
}

func NewEngine(inv Inventory, opts ...Option) *Engine {
	e := &Engine{inv: inv, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type run struct {
	e     *Engine
	state State
}

func (r *run) to(next State) {
	prev := r.state
	r.state = next
	r.e.log.Debug().Str("from", prev.String()).Str("to", next.String()).Msg("checkout transition")
	if r.e.onTransition != nil {
		r.e.onTransition(prev, next)
	}
}

// Checkout はカートを検証して在庫を減らし、成功したらカートを空にする。
// 失敗時は在庫もカートも変えずに *RejectionError を返す。
func (e *Engine) Checkout(c Settler) (Receipt, error) {
	r := &run{e: e, state: StateIdle}
	var receipt Receipt

	err := c.Settle(func(lines []model.CartLine) error {
		// 空カートは何もせず成功
		if len(lines) == 0 {
			receipt = Receipt{Status: StatusOK, Items: []ReceiptItem{}}
			r.to(StateDone)
			return nil
		}

		r.to(StateValidating)
		if problems := e.validate(lines); len(problems) > 0 {
			r.to(StateRejected)
			return &RejectionError{Problems: problems}
		}

		r.to(StateCommitting)
		rec, err := e.commit(lines)
		if err != nil {
			r.to(StateRejected)
			return err
		}
		receipt = rec
		r.to(StateDone)
		return nil
	})
	if err != nil {
		var rej *RejectionError
		if errors.As(err, &rej) {
			e.log.Info().Int("problems", len(rej.Problems)).Msg("checkout rejected")
		}
		return Receipt{}, err
	}
	return receipt, nil
}

// 全明細を見て問題をすべて集める（最初の1件で止めない）
func (e *Engine) validate(lines []model.CartLine) []Problem {
	var problems []Problem
	for _, l := range lines {
		if l.Quantity < 1 {
			problems = append(problems, problemFor(l.BookID, l.Quantity, model.ErrInvalidQuantity))
			continue
		}
		b, err := e.inv.Get(l.BookID)
		if err != nil {
			problems = append(problems, problemFor(l.BookID, l.Quantity, err))
			continue
		}
		if b.Stock < l.Quantity {
			problems = append(problems, problemFor(l.BookID, l.Quantity,
				&model.StockError{BookID: b.ID, Requested: l.Quantity, Available: b.Stock}))
		}
	}
	return problems
}

// 関係する書籍を昇順でロックして順に減らす。途中で失敗したら戻す。
func (e *Engine) commit(lines []model.CartLine) (Receipt, error) {
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.BookID)
	}
	batch, err := e.inv.LockBooks(ids)
	if err != nil {
		// 検証後に書籍が消えた
		var problems []Problem
		for _, l := range lines {
			if _, gerr := e.inv.Get(l.BookID); gerr != nil {
				problems = append(problems, problemFor(l.BookID, l.Quantity, gerr))
			}
		}
		if len(problems) == 0 {
			problems = []Problem{problemFor(lines[0].BookID, lines[0].Quantity, err)}
		}
		return Receipt{}, &RejectionError{Problems: problems}
	}
	defer batch.Unlock()

	rec := Receipt{Status: StatusOK, Items: make([]ReceiptItem, 0, len(lines))}
	applied := make([]model.CartLine, 0, len(lines))
	for _, l := range lines {
		left, err := batch.Reserve(l.BookID, l.Quantity)
		if err != nil {
			for i := len(applied) - 1; i >= 0; i-- {
				batch.Release(applied[i].BookID, applied[i].Quantity)
			}
			e.log.Warn().Int64("book_id", l.BookID).Err(err).Msg("checkout commit conflict, rolled back")
			return Receipt{}, &RejectionError{Problems: []Problem{problemFor(l.BookID, l.Quantity, err)}}
		}
		applied = append(applied, l)

		b, _ := batch.Book(l.BookID)
		lt := b.Price * l.Quantity
		rec.Items = append(rec.Items, ReceiptItem{
			BookID:     b.ID,
			Title:      b.Title,
			UnitPrice:  b.Price,
			Quantity:   l.Quantity,
			LineTotal:  lt,
			StockAfter: left,
		})
		rec.Charged += lt
	}
	return rec, nil
}
