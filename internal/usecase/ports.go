package usecase

import (
	"context"
	"time"

	"bookstore/internal/domain/model"
)

// 現在の時間（UTC）
type Clock interface {
	Now() time.Time
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// コミット後のイベント送信。失敗しても業務処理は戻さない
type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
}

// 新着一覧のキャッシュ。loaderはキャッシュミス時だけ呼ばれる
type CatalogCache interface {
	NewArrivals(ctx context.Context, load func(ctx context.Context) ([]model.Book, error)) ([]model.Book, error)
	Invalidate(ctx context.Context) error
}
