package repository

import (
	"context"
	"time"

	"bookstore/internal/domain/model"
)

// 空なら全件
type PublisherOrderFilter struct {
	Status model.PublisherOrderStatus
}

type PublisherOrderRepository interface {
	Create(ctx context.Context, order *model.PublisherOrder) error
	//明細と書籍付き
	FindByID(ctx context.Context, orderID int64) (model.PublisherOrder, error)
	List(ctx context.Context, f PublisherOrderFilter) ([]model.PublisherOrder, error)
	// Pending のときだけ Confirmed にする。更新できなければ false
	ConfirmIfPending(ctx context.Context, orderID int64, confirmedAt time.Time) (bool, error)
	HasPendingForISBN(ctx context.Context, isbn string) (bool, error)
	CountPending(ctx context.Context) (int64, error)
}
