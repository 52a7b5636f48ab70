package checkout

import (
	"errors"
	"fmt"
	"strings"

	"bookstore/internal/domain/model"
)

type Reason string

const (
	ReasonNotFound          Reason = "NOT_FOUND"
	ReasonInsufficientStock Reason = "INSUFFICIENT_STOCK"
	ReasonInvalidQuantity   Reason = "INVALID_QUANTITY"
	ReasonUnavailable       Reason = "UNAVAILABLE"
)

// Problem は通らなかった明細1件
type Problem struct {
	BookID    int64  `json:"book_id"`
	Reason    Reason `json:"reason"`
	Requested int64  `json:"requested"`
	Available int64  `json:"available"`
	err       error
}

func (p Problem) Err() error { return p.err }

func problemFor(bookID, requested int64, err error) Problem {
	p := Problem{BookID: bookID, Requested: requested, err: err}
	var se *model.StockError
	switch {
	case errors.As(err, &se):
		p.Reason = ReasonInsufficientStock
		p.Available = se.Available
	case errors.Is(err, model.ErrInsufficientStock):
		p.Reason = ReasonInsufficientStock
	case errors.Is(err, model.ErrBookNotFound):
		p.Reason = ReasonNotFound
	case errors.Is(err, model.ErrInvalidQuantity):
		p.Reason = ReasonInvalidQuantity
	default:
		// 想定外のエラー
		p.Reason = ReasonUnavailable
	}
	return p
}

// RejectionError は拒否された全明細をまとめて返す。
// errors.Is(err, model.ErrInsufficientStock) のように個別の原因でも判定できる。
type RejectionError struct {
	Problems []Problem
}

func (e *RejectionError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, fmt.Sprintf("book %d: %s", p.BookID, p.Reason))
	}
	return "checkout rejected: " + strings.Join(parts, ", ")
}

func (e *RejectionError) Unwrap() []error {
	out := make([]error, 0, len(e.Problems))
	for _, p := range e.Problems {
		if p.err != nil {
			out = append(out, p.err)
		}
	}
	return out
}
