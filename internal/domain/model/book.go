package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// 書籍カテゴリ（固定）
type Category int

const (
	CategoryFiction   Category = 0
	CategoryReligious Category = 1
	CategoryAcademic  Category = 2
)

// Categories は表示順のカテゴリ一覧
var Categories = []Category{CategoryFiction, CategoryReligious, CategoryAcademic}

func (c Category) Valid() bool {
	return c >= CategoryFiction && c <= CategoryAcademic
}

func (c Category) String() string {
	switch c {
	case CategoryFiction:
		return "Fiction"
	case CategoryReligious:
		return "Religious"
	case CategoryAcademic:
		return "Academic"
	default:
		return "Category(" + strconv.Itoa(int(c)) + ")"
	}
}

// ParseCategory は "fiction" のような名前と "0" のようなコードの両方を受け付ける。
func ParseCategory(s string) (Category, error) {
	v := strings.TrimSpace(s)
	if n, err := strconv.Atoi(v); err == nil {
		c := Category(n)
		if !c.Valid() {
			return 0, ErrInvalidCategory
		}
		return c, nil
	}
	for _, c := range Categories {
		if strings.EqualFold(c.String(), v) {
			return c, nil
		}
	}
	return 0, ErrInvalidCategory
}

// JSONでは名前で出す
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, ErrInvalidCategory
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// 書籍。価格は最小通貨単位（セント）で持つ。
type Book struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ISBN      string    `gorm:"type:varchar(20);uniqueIndex" json:"isbn"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Author    string    `gorm:"type:varchar(255)" json:"author"`
	Price     int64     `gorm:"not null" json:"price"`
	Category  Category  `gorm:"not null;index" json:"category"`
	ImageURL  string    `gorm:"type:varchar(512);column:image_url" json:"image_url"`
	Stock     int64     `gorm:"not null" json:"stock"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"-"`
}

// 一覧表示用の説明
func (b Book) Describe() string {
	return fmt.Sprintf("%s by %s (%s) - %s", b.Title, b.Author, b.Category, FormatCents(b.Price))
}

func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
