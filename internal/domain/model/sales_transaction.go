package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// チェックアウト完了時に作られる。作成後は変更しない
type SalesTransaction struct {
	ID               int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID       int64           `gorm:"not null;index" json:"customer_id"`
	TransactionDate  time.Time       `gorm:"not null;index" json:"transaction_date"`
	TotalAmount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	PaymentReference string          `gorm:"type:varchar(32);not null" json:"payment_reference"`
	CardExpiry       string          `gorm:"type:varchar(10)" json:"card_expiry"`
	IdempotencyKey   string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"-"`

	Items []SaleItem `gorm:"foreignKey:TransactionID" json:"items"`
}

// 販売時点の価格を固定して保存する
type SaleItem struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionID int64           `gorm:"not null;index" json:"transaction_id"`
	ISBN          string          `gorm:"column:isbn;type:varchar(20);not null;index" json:"isbn"`
	TitleSnapshot string          `gorm:"type:varchar(255);not null" json:"title"`
	QuantitySold  int64           `gorm:"not null" json:"quantity_sold"`
	PriceAtSale   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price_at_sale"`
}

func (s SaleItem) Amount() decimal.Decimal {
	return s.PriceAtSale.Mul(decimal.NewFromInt(s.QuantitySold))
}
