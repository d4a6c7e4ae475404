package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/salesops/go-sales-csv/internal/models"
	"github.com/salesops/go-sales-csv/internal/service"
	"github.com/salesops/go-sales-csv/pkg/metrics"
)

// RabbitMQConsumer manages the connection and message flow from the broker,
// invoking the generator once per delivered job.
type RabbitMQConsumer struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	exchange  string
	queue     string
	generator *service.Generator
	guard     *Dedupe
	logger    *slog.Logger
}

func NewRabbitMQConsumer(url, exchange, queue string, gen *service.Generator, guard *Dedupe, logger *slog.Logger) (*RabbitMQConsumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %v", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %v", err)
	}

	// QoS: Prefetch 1 keeps one report in flight per worker
	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %v", err)
	}

	return &RabbitMQConsumer{
		conn:      conn,
		channel:   ch,
		exchange:  exchange,
		queue:     queue,
		generator: gen,
		guard:     guard,
		logger:    logger,
	}, nil
}

// Listen starts the consumption loop. The topology declaration is shared
// with the publisher side and idempotent.
func (c *RabbitMQConsumer) Listen(ctx context.Context) error {
	if err := declareTopology(c.channel, c.exchange, c.queue); err != nil {
		return err
	}

	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %v", err)
	}

	c.logger.Info("Consumer is online and waiting for messages", "queue", c.queue, "routing_key", RoutingKey)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			c.handleDelivery(ctx, d)
		}
	}
}

func (c *RabbitMQConsumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	l := c.logger.With("message_id", d.MessageId, "correlation_id", d.CorrelationId)

	var payload models.JobPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		l.Error("Failed to unmarshal message", "error", err)
		d.Nack(false, false) // Drop malformed messages
		return
	}

	// Idempotency: a message id that already completed is acked away
	if c.guard.Seen(d.MessageId) {
		metrics.DuplicatesDropped.Inc()
		l.Info("Duplicate message, skipping to ACK")
		d.Ack(false)
		return
	}

	_, err := c.generator.Generate(ctx, &payload)
	if err != nil {
		if service.IsValidationError(err) {
			l.Error("Unprocessable job, dropping", "error", err)
			d.Nack(false, false)
			return
		}

		l.Error("Processing failed, requeueing", "error", err)
		time.Sleep(5 * time.Second) // Throttling retries
		d.Nack(false, true)         // Requeue for another attempt
		return
	}

	c.guard.Mark(d.MessageId)

	if err := d.Ack(false); err != nil {
		l.Error("Failed to Ack message", "error", err)
	}
}

// Close gracefully terminates RabbitMQ resources.
func (c *RabbitMQConsumer) Close() {
	c.logger.Info("Shutting down RabbitMQ consumer")
	c.channel.Close()
	c.conn.Close()
}
