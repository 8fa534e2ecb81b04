package repository

import (
	"context"

	"bookstore/internal/domain/model"
)

type CartItemRepository interface {
	// 現在の価格・在庫を付けて返す
	ListLines(ctx context.Context, cartID int64) ([]model.CartLine, error)
	// 行ロックして取得
	FindByCartAndISBN(ctx context.Context, cartID int64, isbn string) (model.CartItem, error)
	Insert(ctx context.Context, item model.CartItem) error
	UpdateQuantity(ctx context.Context, cartID int64, isbn string, qty int64) error
	Delete(ctx context.Context, cartID int64, isbn string) error
}
