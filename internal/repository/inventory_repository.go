package repository

import (
	"bookstore/internal/domain/model"
	"context"
)

type InventoryRepository interface {
	// 在庫の現在値を設定
	SetStock(ctx context.Context, isbn string, newStock int64) error

	// 在庫が足りるときだけ減算
	DecreaseStockIfEnough(ctx context.Context, isbn string, qty int64) (bool, error)

	// 入荷（発注確定）
	IncreaseStock(ctx context.Context, isbn string, qty int64) error

	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error

	// 在庫がしきい値以下の冊数
	CountLowStock(ctx context.Context) (int64, error)
}
