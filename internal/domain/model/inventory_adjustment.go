package model

import "time"

// 在庫調整の履歴（入荷はプラス、チェックアウトはマイナス）
type InventoryAdjustment struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BookID      int64     `gorm:"not null;index" json:"book_id"`
	ActorUserID int64     `gorm:"not null;index" json:"actor_user_id"`
	Delta       int64     `gorm:"not null" json:"delta"`
	StockAfter  int64     `gorm:"not null" json:"stock_after"`
	Reason      string    `gorm:"type:varchar(255);not null" json:"reason"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
