package repository

import (
	"context"

	"bookstore/internal/domain/model"
)

type SalesRepository interface {
	// 明細ごと作成する
	Create(ctx context.Context, tx *model.SalesTransaction) error
	//検索（同じキーなら同じ結果を返す）
	FindByIdempotencyKey(ctx context.Context, customerID int64, key string) (model.SalesTransaction, bool, error)
	// 新しい順、明細付き
	ListByCustomerID(ctx context.Context, customerID int64) ([]model.SalesTransaction, error)
}
