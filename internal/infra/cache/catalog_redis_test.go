package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"bookstore/internal/domain/model"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func sampleBooks() []model.Book {
	return []model.Book{
		{ISBN: "9780000000002", Title: "Cosmos", Price: decimal.RequireFromString("12.50"), StockQuantity: 3},
		{ISBN: "9780000000001", Title: "Atlas", Price: decimal.RequireFromString("40.00"), StockQuantity: 1},
	}
}

func TestNewArrivals_CacheMissLoadsAndStores(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewCatalogRedisCache(db, time.Minute)
	books := sampleBooks()
	payload, err := json.Marshal(books)
	require.NoError(t, err)

	mock.ExpectGet(NewArrivalsKey).RedisNil()
	mock.ExpectSet(NewArrivalsKey, payload, time.Minute).SetVal("OK")

	calls := 0
	got, err := c.NewArrivals(context.Background(), func(ctx context.Context) ([]model.Book, error) {
		calls++
		return books, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Len(t, got, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewArrivals_CallerCancelDoesNotAbortSharedLoad(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewCatalogRedisCache(db, time.Minute)
	books := sampleBooks()
	payload, err := json.Marshal(books)
	require.NoError(t, err)

	mock.ExpectGet(NewArrivalsKey).RedisNil()
	mock.ExpectSet(NewArrivalsKey, payload, time.Minute).SetVal("OK")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got, err := c.NewArrivals(ctx, func(loadCtx context.Context) ([]model.Book, error) {
		// 読み込み中に最初の呼び出し元が離脱
		cancel()
		assert.NoError(t, loadCtx.Err())
		return books, nil
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewArrivals_CacheHitSkipsLoader(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewCatalogRedisCache(db, time.Minute)
	payload, err := json.Marshal(sampleBooks())
	require.NoError(t, err)

	mock.ExpectGet(NewArrivalsKey).SetVal(string(payload))

	got, err := c.NewArrivals(context.Background(), func(ctx context.Context) ([]model.Book, error) {
		t.Fatal("loader must not be called on a hit")
		return nil, nil
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Cosmos", got[0].Title)
	assert.True(t, got[0].Price.Equal(decimal.RequireFromString("12.5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewArrivals_RedisDownFallsBackToLoader(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewCatalogRedisCache(db, time.Minute)

	mock.ExpectGet(NewArrivalsKey).SetErr(errors.New("connection refused"))
	mock.ExpectSet(NewArrivalsKey, []byte("null"), time.Minute).SetErr(errors.New("connection refused"))

	got, err := c.NewArrivals(context.Background(), func(ctx context.Context) ([]model.Book, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewArrivals_LoaderErrorIsReturned(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewCatalogRedisCache(db, time.Minute)

	mock.ExpectGet(NewArrivalsKey).RedisNil()

	_, err := c.NewArrivals(context.Background(), func(ctx context.Context) ([]model.Book, error) {
		return nil, errors.New("db down")
	})
	assert.EqualError(t, err, "db down")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidate(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewCatalogRedisCache(db, time.Minute)

	mock.ExpectDel(NewArrivalsKey).SetVal(1)

	require.NoError(t, c.Invalidate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoopCatalogCache_AlwaysLoads(t *testing.T) {
	var calls int32
	var wg sync.WaitGroup
	c := NoopCatalogCache{}

	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.NewArrivals(context.Background(), func(ctx context.Context) ([]model.Book, error) {
				atomic.AddInt32(&calls, 1)
				return nil, nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.NoError(t, c.Invalidate(context.Background()))
}
