package model

// カートの明細（書籍IDと数量だけ。価格は読むたびにカタログから引く）
type CartLine struct {
	BookID   int64 `json:"book_id"`
	Quantity int64 `json:"quantity"`
}
