package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 書籍カテゴリ
type BookCategory string

const (
	CategoryScience   BookCategory = "Science"
	CategoryArt       BookCategory = "Art"
	CategoryReligion  BookCategory = "Religion"
	CategoryHistory   BookCategory = "History"
	CategoryGeography BookCategory = "Geography"
)

// 画面のプルダウン用
var BookCategories = []BookCategory{
	CategoryScience,
	CategoryArt,
	CategoryReligion,
	CategoryHistory,
	CategoryGeography,
}

func (c BookCategory) Valid() bool {
	for _, v := range BookCategories {
		if v == c {
			return true
		}
	}
	return false
}

// ISBNが主キー。在庫は0未満にならない（チェックアウトの条件付き減算で守る）
type Book struct {
	ISBN            string          `gorm:"column:isbn;primaryKey;type:varchar(20)" json:"isbn"`
	Title           string          `gorm:"type:varchar(255);not null;index" json:"title"`
	PublicationYear int             `gorm:"not null" json:"publication_year"`
	Price           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Category        BookCategory    `gorm:"type:varchar(30);not null;index" json:"category"`
	PublisherID     int64           `gorm:"not null;index" json:"publisher_id"`
	StockQuantity   int64           `gorm:"not null;default:0" json:"stock_quantity"`
	StockThreshold  int64           `gorm:"not null;default:0" json:"stock_threshold"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`

	Publisher Publisher `gorm:"foreignKey:PublisherID" json:"publisher"`
	Authors   []Author  `gorm:"-" json:"authors"`
}

// 在庫がしきい値以下か
func (b Book) IsLowStock() bool {
	return b.StockQuantity <= b.StockThreshold
}

// "名 姓, 名 姓" 形式
func (b Book) AuthorNames() string {
	s := ""
	for i, a := range b.Authors {
		if i > 0 {
			s += ", "
		}
		s += a.FullName()
	}
	return s
}
