package model

import "time"

// 確定時点のタイトルと単価を残す
type OrderItem struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID           int64     `gorm:"not null;index" json:"-"`
	BookID            int64     `gorm:"not null;index" json:"book_id"`
	TitleSnapshot     string    `gorm:"type:varchar(255);not null" json:"title"`
	UnitPriceSnapshot int64     `gorm:"not null" json:"unit_price"`
	Quantity          int64     `gorm:"not null" json:"quantity"`
	CreatedAt         time.Time `gorm:"not null;autoCreateTime" json:"-"`
}
