package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"nexus_pix/internal/domain/entities"
	"nexus_pix/internal/usecase/interfaces"

	"github.com/rabbitmq/amqp091-go"
)

// RabbitChargeEventPublisher publishes settled charges on a topic exchange,
// routed as charge.paid or charge.failed.
type RabbitChargeEventPublisher struct {
	conn     *amqp091.Connection
	exchange string
}

var _ interfaces.IChargeEventPublisher = (*RabbitChargeEventPublisher)(nil)

func NewRabbitChargeEventPublisher(url, exchange string) (*RabbitChargeEventPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	log.Printf("[pix][rabbit] publisher ready exchange=%s", exchange)
	return &RabbitChargeEventPublisher{conn: conn, exchange: exchange}, nil
}

func (p *RabbitChargeEventPublisher) PublishChargeEvent(ctx context.Context, evt entities.ChargeEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal charge event: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.PublishWithContext(ctx, p.exchange, evt.RoutingKey(), false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    evt.EventID,
		Timestamp:    evt.OccurredAt,
		Type:         evt.RoutingKey(),
		Body:         payload,
	}); err != nil {
		return fmt.Errorf("publish %s: %w", evt.RoutingKey(), err)
	}

	log.Printf("[pix][rabbit] published routing_key=%s transaction_id=%s event_id=%s", evt.RoutingKey(), evt.TransactionID, evt.EventID)
	return nil
}

func (p *RabbitChargeEventPublisher) Close() error {
	return p.conn.Close()
}
