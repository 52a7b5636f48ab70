package usecase

import (
	"context"
	"net/http"
	"strconv"

	"bookstore/internal/cart"
	"bookstore/internal/domain/model"
)

// /cart のusecase。カートはユーザーIDをセッションIDにしてメモリに持つ。
type CartUsecase struct {
	carts *cart.Store
}

// DI
func NewCartUsecase(carts *cart.Store) *CartUsecase {
	return &CartUsecase{carts: carts}
}

type AddCartInput struct {
	BookID   int64
	Quantity int64
}

type CartItemOutput struct {
	BookID    int64          `json:"book_id"`
	Title     string         `json:"title"`
	Author    string         `json:"author"`
	Category  model.Category `json:"category"`
	ImageURL  string         `json:"image_url"`
	UnitPrice int64          `json:"unit_price"`
	Quantity  int64          `json:"quantity"`
	LineTotal int64          `json:"line_total"`
}

type CartResponse struct {
	Items []CartItemOutput `json:"items"`
	Total int64            `json:"total"`
	// カタログから消えた書籍（checkoutでNOT_FOUNDになる）
	Missing []int64 `json:"missing,omitempty"`
}

// セッションIDはユーザーIDの文字列
func SessionID(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	c, ok := u.carts.Peek(SessionID(userID))
	if !ok {
		return CartResponse{Items: []CartItemOutput{}}, nil
	}
	return toCartResponse(c)
}

// AddToCart は数量0なら1冊として扱う
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.BookID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid book_id")
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	c := u.carts.Get(SessionID(userID))
	if err := c.AddItem(in.BookID, in.Quantity); err != nil {
		return CartResponse{}, fromDomainError(err)
	}
	return toCartResponse(c)
}

// UpdateQuantity は0で削除
func (u *CartUsecase) UpdateQuantity(ctx context.Context, userID int64, bookID int64, qty int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if bookID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid book_id")
	}

	c := u.carts.Get(SessionID(userID))
	if err := c.SetQuantity(bookID, qty); err != nil {
		return CartResponse{}, fromDomainError(err)
	}
	return toCartResponse(c)
}

func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, bookID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	c := u.carts.Get(SessionID(userID))
	c.RemoveItem(bookID)
	return toCartResponse(c)
}

func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if c, ok := u.carts.Peek(SessionID(userID)); ok {
		c.Clear()
	}
	return nil
}

func toCartResponse(c *cart.Cart) (CartResponse, error) {
	snap, err := c.Snapshot()
	if err != nil {
		return CartResponse{}, fromDomainError(err)
	}
	out := CartResponse{
		Items:   make([]CartItemOutput, 0, len(snap.Items)),
		Total:   snap.Total,
		Missing: snap.Missing,
	}
	for _, it := range snap.Items {
		out.Items = append(out.Items, CartItemOutput{
			BookID:    it.Book.ID,
			Title:     it.Book.Title,
			Author:    it.Book.Author,
			Category:  it.Book.Category,
			ImageURL:  it.Book.ImageURL,
			UnitPrice: it.Book.Price,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal,
		})
	}
	return out, nil
}
