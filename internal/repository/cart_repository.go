package repository

import (
	"context"

	"bookstore/internal/domain/model"
)

type CartRepository interface {
	Create(ctx context.Context, customerID int64) (model.Cart, error)
	GetOrCreateByCustomerID(ctx context.Context, customerID int64) (model.Cart, error)
	FindByCustomerID(ctx context.Context, customerID int64) (model.Cart, error)
	// 明細だけ消す。カート自体は残す
	Clear(ctx context.Context, cartID int64) error
}
