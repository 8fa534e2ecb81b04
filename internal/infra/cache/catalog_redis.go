package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"bookstore/internal/domain/model"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const NewArrivalsKey = "bookstore:catalog:new_arrivals"

// cache-aside。同時のキャッシュミスはsingleflightで1回のDB読み込みにまとめる
type CatalogRedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
	group  singleflight.Group
}

func NewCatalogRedisCache(client redis.Cmdable, ttl time.Duration) *CatalogRedisCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CatalogRedisCache{client: client, ttl: ttl}
}

func (c *CatalogRedisCache) NewArrivals(ctx context.Context, load func(ctx context.Context) ([]model.Book, error)) ([]model.Book, error) {
	if books, ok := c.get(ctx); ok {
		return books, nil
	}

	v, err, _ := c.group.Do(NewArrivalsKey, func() (any, error) {
		// 相乗りした他の呼び出しも待っているので、先頭のキャンセルで止めない
		loadCtx := context.WithoutCancel(ctx)
		books, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.set(loadCtx, books)
		return books, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Book), nil
}

// 在庫・価格が変わったら消す
func (c *CatalogRedisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, NewArrivalsKey).Err()
}

// Redisが落ちていてもDBで返す
func (c *CatalogRedisCache) get(ctx context.Context) ([]model.Book, bool) {
	value, err := c.client.Get(ctx, NewArrivalsKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.WarnContext(ctx, "catalog cache get failed", "err", err)
		return nil, false
	}

	var books []model.Book
	if err := json.Unmarshal([]byte(value), &books); err != nil {
		slog.WarnContext(ctx, "catalog cache decode failed", "err", err)
		return nil, false
	}
	return books, true
}

func (c *CatalogRedisCache) set(ctx context.Context, books []model.Book) {
	payload, err := json.Marshal(books)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, NewArrivalsKey, payload, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "catalog cache set failed", "err", err)
	}
}

// REDIS_URLが空のとき
type NoopCatalogCache struct{}

func (NoopCatalogCache) NewArrivals(ctx context.Context, load func(ctx context.Context) ([]model.Book, error)) ([]model.Book, error) {
	return load(ctx)
}

func (NoopCatalogCache) Invalidate(context.Context) error { return nil }

// REDIS_URLからクライアントを作る
func NewRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}
