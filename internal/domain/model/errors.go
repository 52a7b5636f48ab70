package model

import (
	"errors"
	"fmt"
)

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrDuplicateBook     = errors.New("book already exists")
	ErrInvalidTitle      = errors.New("title is required")
)

// 在庫不足の詳細。errors.Is(err, ErrInsufficientStock) で判定できる。
type StockError struct {
	BookID    int64
	Requested int64
	Available int64
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for book %d: requested %d, available %d", e.BookID, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }
