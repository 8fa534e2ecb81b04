package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"bookstore/internal/domain/model"
	infraRepo "bookstore/internal/infra/repository"
	"bookstore/internal/testutil"
	"bookstore/internal/usecase"

	"gorm.io/gorm"
)

// 送ったイベントを覚えておく
type recordingPublisher struct {
	mu     sync.Mutex
	events []usecase.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, ev usecase.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

// Invalidateの回数を数えるだけのキャッシュ
type countingCache struct {
	mu          sync.Mutex
	invalidated int
}

func (c *countingCache) NewArrivals(ctx context.Context, load func(ctx context.Context) ([]model.Book, error)) ([]model.Book, error) {
	return load(ctx)
}

func (c *countingCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	return nil
}

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

type env struct {
	db     *gorm.DB
	clock  *testutil.FixedClock
	events *recordingPublisher
	cache  *countingCache

	catalog   *usecase.CatalogUsecase
	cart      *usecase.CartUsecase
	checkout  *usecase.CheckoutUsecase
	adminBook *usecase.AdminBookUsecase
	orders    *usecase.PublisherOrderUsecase
	reports   *usecase.ReportUsecase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gdb := testutil.NewTestDB(t)

	e := &env{
		db:     gdb,
		clock:  &testutil.FixedClock{T: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)},
		events: &recordingPublisher{},
		cache:  &countingCache{},
	}
	ids := &seqIDs{}

	books := infraRepo.NewBookGormRepository(gdb)
	carts := infraRepo.NewCartGormRepository(gdb)
	sales := infraRepo.NewSalesGormRepository(gdb)
	orders := infraRepo.NewPublisherOrderGormRepository(gdb)
	publishers := infraRepo.NewPublisherGormRepository(gdb)
	txm := infraRepo.NewTxManagerGorm(gdb)

	e.catalog = usecase.NewCatalogUsecase(books, e.cache)
	e.cart = usecase.NewCartUsecase(txm, carts, carts)
	e.checkout = usecase.NewCheckoutUsecase(txm, carts, carts, sales, ids, e.clock, e.events, e.cache, 20)
	e.adminBook = usecase.NewAdminBookUsecase(txm, books, infraRepo.NewAuthorGormRepository(gdb), publishers, infraRepo.NewAuditLogGormRepository(gdb), e.clock, e.cache)
	e.orders = usecase.NewPublisherOrderUsecase(txm, orders, publishers, ids, e.clock, e.events, e.cache)
	e.reports = usecase.NewReportUsecase(infraRepo.NewReportGormRepository(gdb), orders, infraRepo.NewInventoryGormRepository(gdb), e.clock)
	return e
}

func kindOf(err error) usecase.ErrorKind {
	if ae, ok := usecase.AsAppError(err); ok {
		return ae.Kind
	}
	return ""
}

func noticeOf(err error) string {
	if ae, ok := usecase.AsAppError(err); ok {
		return ae.Notice
	}
	return ""
}
