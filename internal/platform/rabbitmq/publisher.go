// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package rabbitmq publishes domain events to a RabbitMQ topic exchange.

Usage:

	publisher, err := rabbitmq.Dial(cfg.AMQPURL, cfg.AMQPExchange, logger)
	if err != nil {
	    return err
	}
	defer publisher.Close()

	err = publisher.Publish(ctx, "booking.confirmed", event)
*/
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("rabbitmq: publisher closed")

// Publisher owns one connection and one channel bound to a durable topic
// exchange.
type Publisher struct {
	exchange string
	logger   *slog.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  bool
}

/*
Dial connects to the broker and declares the exchange.

Parameters:
  - rawURL: string (amqp:// URL)
  - exchange: string
  - logger: *slog.Logger

Returns:
  - *Publisher: Ready to publish
  - error: Connection or declaration failures
*/
func Dial(rawURL, exchange string, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(rawURL)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq_dial_failed: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq_channel_failed: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq_exchange_declare_failed: %w", err)
	}

	logger.Info("rabbitmq_connected",
		slog.String("url", redact(rawURL)),
		slog.String("exchange", exchange),
	)

	return &Publisher{
		exchange: exchange,
		logger:   logger,
		conn:     conn,
		channel:  channel,
	}, nil
}

// Publish sends payload as a persistent JSON message with routingKey.
func (publisher *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("rabbitmq_marshal_failed: %w", err)
	}

	// amqp channels are not safe for concurrent publishing.
	publisher.mu.Lock()
	defer publisher.mu.Unlock()

	if publisher.closed {
		return ErrClosed
	}

	err = publisher.channel.PublishWithContext(ctx,
		publisher.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("rabbitmq_publish_failed: %w", err)
	}
	return nil
}

// Ping reports whether the underlying connection is still open.
func (publisher *Publisher) Ping(_ context.Context) error {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()

	if publisher.closed {
		return ErrClosed
	}
	if publisher.conn.IsClosed() {
		return errors.New("rabbitmq: connection closed by broker")
	}
	return nil
}

// Close releases the channel and the connection. It is safe to call twice.
func (publisher *Publisher) Close() error {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()

	if publisher.closed {
		return nil
	}
	publisher.closed = true

	publisher.channel.Close()
	return publisher.conn.Close()
}

// redact hides credentials before the URL reaches the logs.
func redact(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url"
	}
	return parsed.Redacted()
}
