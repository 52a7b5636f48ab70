package model

import "time"

type OrderStatus string

const (
	// チェックアウトで在庫を確定した注文
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
)

// チェックアウト成功時の受領記録
type Order struct {
	ID         int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Number     string      `gorm:"type:varchar(64);not null;uniqueIndex" json:"number"`
	UserID     int64       `gorm:"not null;index" json:"user_id"`
	Status     OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalPrice int64       `gorm:"not null" json:"total_price"`
	Items      []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt  time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
}
