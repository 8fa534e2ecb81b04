package model

import "github.com/shopspring/decimal"

// カートの明細。(cart_id, isbn) で一意
type CartItem struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID   int64  `gorm:"not null;uniqueIndex:idx_cart_items_cart_isbn" json:"cart_id"`
	ISBN     string `gorm:"column:isbn;type:varchar(20);not null;uniqueIndex:idx_cart_items_cart_isbn" json:"isbn"`
	Quantity int64  `gorm:"not null" json:"quantity"`
}

// 明細に現在の書籍価格・在庫を付けたもの（読み取り専用）
type CartLine struct {
	ISBN          string
	Title         string
	Price         decimal.Decimal
	StockQuantity int64
	// 自動発注の判定用
	StockThreshold int64
	PublisherID    int64
	Quantity       int64
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(l.Quantity))
}
