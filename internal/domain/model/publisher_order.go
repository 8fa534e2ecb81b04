package model

import "time"

type PublisherOrderStatus string

const (
	PublisherOrderPending   PublisherOrderStatus = "Pending"
	PublisherOrderConfirmed PublisherOrderStatus = "Confirmed"
)

// 出版社への補充発注。Pending → Confirmed の一方向のみ
type PublisherOrder struct {
	ID          int64                `gorm:"primaryKey;autoIncrement" json:"id"`
	PublisherID int64                `gorm:"not null;index" json:"publisher_id"`
	OrderDate   time.Time            `gorm:"not null;index" json:"order_date"`
	Status      PublisherOrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ConfirmedAt *time.Time           `json:"confirmed_at"`

	Publisher Publisher            `gorm:"foreignKey:PublisherID" json:"publisher"`
	Items     []PublisherOrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

type PublisherOrderItem struct {
	ID              int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID         int64  `gorm:"not null;index" json:"order_id"`
	ISBN            string `gorm:"column:isbn;type:varchar(20);not null;index" json:"isbn"`
	QuantityOrdered int64  `gorm:"not null" json:"quantity_ordered"`

	// 表示用。repositoryがISBNで詰める
	Book Book `gorm:"-" json:"book"`
}

// Confirmed からは戻せない
func (s PublisherOrderStatus) CanTransitionTo(next PublisherOrderStatus) bool {
	return s == PublisherOrderPending && next == PublisherOrderConfirmed
}
