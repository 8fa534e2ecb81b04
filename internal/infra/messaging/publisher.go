package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"bookstore/internal/usecase"

	amqp "github.com/rabbitmq/amqp091-go"
)

// *amqp.Channel のうち使う部分だけ
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type publisher struct {
	ch       Channel
	exchange string
}

// routing keyはイベント種別（sale.completed など）
func NewPublisher(ch Channel, exchange string) usecase.EventPublisher {
	return &publisher{ch: ch, exchange: exchange}
}

func (p *publisher) Publish(ctx context.Context, ev usecase.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}

	return p.ch.PublishWithContext(ctx,
		p.exchange, // exchange
		ev.Type,    // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.ID,
			Type:         ev.Type,
			Timestamp:    ev.OccurredAt,
			Body:         body,
		},
	)
}

// AMQP_URLが空のとき。ログに出すだけ
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, ev usecase.Event) error {
	slog.DebugContext(ctx, "event", "type", ev.Type, "id", ev.ID)
	return nil
}
