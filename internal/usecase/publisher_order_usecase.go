package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"
)

type PublisherOrderUsecase struct {
	tx         repo.TransactionManager
	orders     repo.PublisherOrderRepository
	publishers repo.PublisherRepository
	ids        IDGenerator
	clock      Clock
	events     EventPublisher
	cache      CatalogCache
}

func NewPublisherOrderUsecase(
	tx repo.TransactionManager,
	orders repo.PublisherOrderRepository,
	publishers repo.PublisherRepository,
	ids IDGenerator,
	clock Clock,
	events EventPublisher,
	cache CatalogCache,
) *PublisherOrderUsecase {
	return &PublisherOrderUsecase{tx: tx, orders: orders, publishers: publishers, ids: ids, clock: clock, events: events, cache: cache}
}

// 画面の絞り込み（pending / confirmed / all）
type PublisherOrderStatusFilter string

const (
	FilterPending   PublisherOrderStatusFilter = "pending"
	FilterConfirmed PublisherOrderStatusFilter = "confirmed"
	FilterAll       PublisherOrderStatusFilter = "all"
)

// 不明な値はpending
func ParseStatusFilter(s string) PublisherOrderStatusFilter {
	switch PublisherOrderStatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterConfirmed:
		return FilterConfirmed
	case FilterAll:
		return FilterAll
	}
	return FilterPending
}

type PublisherOrderLine struct {
	ISBN     string
	Quantity int64
}

type CreatePublisherOrderInput struct {
	PublisherID int64
	Lines       []PublisherOrderLine
}

// 発注画面（一覧と手動発注フォーム用の出版社）
type PublisherOrderBoard struct {
	Filter     PublisherOrderStatusFilter
	Orders     []model.PublisherOrder
	Publishers []model.Publisher
}

// 発注一覧（新しい順）
func (u *PublisherOrderUsecase) List(ctx context.Context, id model.Identity, filter PublisherOrderStatusFilter) (PublisherOrderBoard, error) {
	if err := Authorize(id, model.CanAdminister); err != nil {
		return PublisherOrderBoard{}, err
	}

	f := repo.PublisherOrderFilter{}
	switch filter {
	case FilterPending:
		f.Status = model.PublisherOrderPending
	case FilterConfirmed:
		f.Status = model.PublisherOrderConfirmed
	}

	list, err := u.orders.List(ctx, f)
	if err != nil {
		return PublisherOrderBoard{}, PersistenceError(ctx, "Could not load publisher orders. Please try again.", err)
	}
	pubs, err := u.publishers.ListAll(ctx)
	if err != nil {
		return PublisherOrderBoard{}, PersistenceError(ctx, "Could not load publisher orders. Please try again.", err)
	}
	return PublisherOrderBoard{Filter: filter, Orders: list, Publishers: pubs}, nil
}

// 管理者が手動で補充を依頼する。ISBNはその出版社の本に限る
func (u *PublisherOrderUsecase) Create(ctx context.Context, id model.Identity, in CreatePublisherOrderInput) (model.PublisherOrder, error) {
	if err := Authorize(id, model.CanAdminister); err != nil {
		return model.PublisherOrder{}, err
	}
	if len(in.Lines) == 0 {
		return model.PublisherOrder{}, NewAppError(KindValidation, "At least one book must be ordered")
	}

	//同じISBNはまとめる
	qty := map[string]int64{}
	var order []string
	for _, l := range in.Lines {
		isbn := strings.TrimSpace(l.ISBN)
		if isbn == "" || l.Quantity < 1 {
			return model.PublisherOrder{}, NewAppError(KindValidation, "Each line needs an ISBN and a quantity of at least 1")
		}
		if _, ok := qty[isbn]; !ok {
			order = append(order, isbn)
		}
		qty[isbn] += l.Quantity
	}

	now := u.clock.Now()
	po := model.PublisherOrder{
		PublisherID: in.PublisherID,
		OrderDate:   now,
		Status:      model.PublisherOrderPending,
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		for _, isbn := range order {
			b, err := r.Books().FindByISBN(ctx, isbn)
			if errors.Is(err, repo.ErrNotFound) {
				return NewAppError(KindValidation, fmt.Sprintf("Unknown ISBN %s", isbn))
			}
			if err != nil {
				return err
			}
			if b.PublisherID != in.PublisherID {
				return NewAppError(KindValidation, fmt.Sprintf("%s is not published by this publisher", isbn))
			}
			po.Items = append(po.Items, model.PublisherOrderItem{ISBN: isbn, QuantityOrdered: qty[isbn]})
		}

		if err := r.PublisherOrders().Create(ctx, &po); err != nil {
			return err
		}

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  id.UserID,
			Action:       model.AuditActionCreatePublisherOrder,
			ResourceType: model.AuditResourcePublisherOrder,
			ResourceID:   strconv.FormatInt(po.ID, 10),
			BeforeJSON:   "{}",
			AfterJSON:    fmt.Sprintf(`{"status":"%s","lines":%d}`, po.Status, len(po.Items)),
			CreatedAt:    now,
		})
	})
	if err != nil {
		return model.PublisherOrder{}, PersistenceError(ctx, "Error creating publisher order. Please try again.", err)
	}

	publishAll(ctx, u.events, publisherOrderEvent(u.ids.NewID(), EventPublisherOrderCreated, po, now))
	return po, nil
}

// Pending → Confirmed。同じTxで入荷分を在庫に足す
func (u *PublisherOrderUsecase) Confirm(ctx context.Context, id model.Identity, orderID int64) (model.PublisherOrder, error) {
	if err := Authorize(id, model.CanAdminister); err != nil {
		return model.PublisherOrder{}, err
	}
	if orderID <= 0 {
		return model.PublisherOrder{}, NewAppError(KindNotFound, "Publisher order not found")
	}

	now := u.clock.Now()
	var confirmed model.PublisherOrder

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		po, err := r.PublisherOrders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewAppError(KindNotFound, "Publisher order not found")
		}
		if err != nil {
			return err
		}
		if !po.Status.CanTransitionTo(model.PublisherOrderConfirmed) {
			return NewAppError(KindBusinessRule, "Order is already confirmed")
		}

		//同時確定は条件付きUPDATEで1回だけ通す
		ok, err := r.PublisherOrders().ConfirmIfPending(ctx, orderID, now)
		if err != nil {
			return err
		}
		if !ok {
			return NewAppError(KindBusinessRule, "Order is already confirmed")
		}

		for _, it := range po.Items {
			if err := r.Inventory().IncreaseStock(ctx, it.ISBN, it.QuantityOrdered); err != nil {
				return err
			}
			if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
				ISBN:        it.ISBN,
				AdminUserID: id.UserID,
				Delta:       it.QuantityOrdered,
				Reason:      fmt.Sprintf("publisher order #%d received", po.ID),
				CreatedAt:   now,
			}); err != nil {
				return err
			}
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  id.UserID,
			Action:       model.AuditActionConfirmPublisherOrder,
			ResourceType: model.AuditResourcePublisherOrder,
			ResourceID:   strconv.FormatInt(po.ID, 10),
			BeforeJSON:   fmt.Sprintf(`{"status":"%s"}`, po.Status),
			AfterJSON:    fmt.Sprintf(`{"status":"%s"}`, model.PublisherOrderConfirmed),
			CreatedAt:    now,
		}); err != nil {
			return err
		}

		po.Status = model.PublisherOrderConfirmed
		po.ConfirmedAt = &now
		confirmed = po
		return nil
	})
	if err != nil {
		return model.PublisherOrder{}, PersistenceError(ctx, "Error confirming order. Please try again.", err)
	}

	publishAll(ctx, u.events, publisherOrderEvent(u.ids.NewID(), EventPublisherOrderConfirmed, confirmed, now))
	invalidateCatalog(ctx, u.cache)
	return confirmed, nil
}

func publisherOrderEvent(eventID string, typ string, po model.PublisherOrder, now time.Time) Event {
	p := PublisherOrderPayload{
		OrderID:     po.ID,
		PublisherID: po.PublisherID,
		Status:      string(po.Status),
	}
	for _, it := range po.Items {
		p.Items = append(p.Items, PublisherOrderLinePayload{ISBN: it.ISBN, Quantity: it.QuantityOrdered})
	}
	return Event{ID: eventID, Type: typ, OccurredAt: now, Payload: p}
}
