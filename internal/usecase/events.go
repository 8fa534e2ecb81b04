package usecase

import (
	"context"
	"log/slog"
	"time"
)

const (
	EventSaleCompleted           = "sale.completed"
	EventPublisherOrderCreated   = "publisher_order.created"
	EventPublisherOrderConfirmed = "publisher_order.confirmed"
)

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type SaleLinePayload struct {
	ISBN     string `json:"isbn"`
	Quantity int64  `json:"quantity"`
	Price    string `json:"price"`
}

type SaleCompletedPayload struct {
	TransactionID int64             `json:"transaction_id"`
	CustomerID    int64             `json:"customer_id"`
	Total         string            `json:"total"`
	Items         []SaleLinePayload `json:"items"`
}

type PublisherOrderLinePayload struct {
	ISBN     string `json:"isbn"`
	Quantity int64  `json:"quantity"`
}

type PublisherOrderPayload struct {
	OrderID     int64                       `json:"order_id"`
	PublisherID int64                       `json:"publisher_id"`
	Status      string                      `json:"status"`
	Items       []PublisherOrderLinePayload `json:"items"`
}

// 送信失敗はログだけ
func publishAll(ctx context.Context, pub EventPublisher, evs ...Event) {
	for _, ev := range evs {
		if err := pub.Publish(ctx, ev); err != nil {
			slog.WarnContext(ctx, "event publish failed", "type", ev.Type, "id", ev.ID, "err", err)
		}
	}
}

func invalidateCatalog(ctx context.Context, cache CatalogCache) {
	if err := cache.Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "catalog cache invalidate failed", "err", err)
	}
}
