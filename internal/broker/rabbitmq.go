package broker

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/salesops/go-sales-csv/internal/models"
	"github.com/salesops/go-sales-csv/pkg/metrics"
)

// RoutingKey carries every report request through the topic exchange.
const RoutingKey = "sales.csv.request"

const confirmTimeout = 10 * time.Second

// RabbitMQClient handles the low-level communication with the message broker.
// Scheduled delivery uses a TTL holding queue that dead-letters expired
// messages back into the main exchange, so a deferred job becomes visible to
// consumers only once its delay elapses.
type RabbitMQClient struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	queue      string
	delayQueue string
	logger     *slog.Logger
	connClosed chan *amqp.Error
	chanClosed chan *amqp.Error
	closeOnce  sync.Once
	healthy    atomic.Bool
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewRabbitMQClient initializes a connection and a channel, declares the
// full topology, and enables Publisher Confirms by default.
func NewRabbitMQClient(url, exchange, queue string, l *slog.Logger) (*RabbitMQClient, error) {
	c, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %v", err)
	}

	ch, err := c.Channel()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %v", err)
	}

	if err := declareTopology(ch, exchange, queue); err != nil {
		ch.Close()
		c.Close()
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		ch.Close()
		c.Close()
		return nil, fmt.Errorf("failed to activate Publisher Confirms: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := &RabbitMQClient{
		conn:       c,
		channel:    ch,
		exchange:   exchange,
		queue:      queue,
		delayQueue: queue + ".delay",
		logger:     l,
		connClosed: make(chan *amqp.Error, 1),
		chanClosed: make(chan *amqp.Error, 1),
		ctx:        ctx,
		cancel:     cancel,
	}

	client.healthy.Store(true)
	metrics.HealthStatus.Set(1)

	client.conn.NotifyClose(client.connClosed)
	client.channel.NotifyClose(client.chanClosed)

	go func() {
		select {
		case err := <-client.connClosed:
			client.healthy.Store(false)
			metrics.HealthStatus.Set(0)
			l.Warn("RabbitMQ connection closed", "error", err)
		case err := <-client.chanClosed:
			client.healthy.Store(false)
			metrics.HealthStatus.Set(0)
			l.Warn("RabbitMQ channel closed", "error", err)
		case <-client.ctx.Done():
			return
		}
	}()

	l.Info("Successfully connected to RabbitMQ and monitors established", "url", url, "queue", queue)
	return client, nil
}

// declareTopology sets up the exchange, the main queue and the delay queue.
// Every declaration is idempotent, so producer and consumer can both run it.
func declareTopology(ch *amqp.Channel, exchange, queue string) error {
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare topic exchange: %v", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue: %v", err)
	}

	if err := ch.QueueBind(queue, RoutingKey, exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %v", err)
	}

	// Expired messages fall back into the main exchange under the regular
	// routing key. Nothing consumes this queue directly.
	delayArgs := amqp.Table{
		"x-dead-letter-exchange":    exchange,
		"x-dead-letter-routing-key": RoutingKey,
	}
	if _, err := ch.QueueDeclare(queue+".delay", true, false, false, false, delayArgs); err != nil {
		return fmt.Errorf("failed to declare delay queue: %v", err)
	}

	return nil
}

// Publish sends a message for immediate visibility and blocks until a
// confirmation (ACK/NACK) is received.
func (r *RabbitMQClient) Publish(ctx context.Context, msg models.QueuedMessage) error {
	_, err := r.publish(ctx, r.exchange, RoutingKey, publishing(msg))
	return err
}

// Schedule holds the message in the delay queue until runAt. A runAt in the
// past degenerates to an immediate publish. The returned sequence is the
// broker's confirmation ticket for the deferred publish.
func (r *RabbitMQClient) Schedule(ctx context.Context, msg models.QueuedMessage, runAt time.Time) (int64, error) {
	delay := time.Until(runAt)
	if delay <= 0 {
		return r.publish(ctx, r.exchange, RoutingKey, publishing(msg))
	}

	pub := publishing(msg)
	pub.Expiration = strconv.FormatInt(delay.Milliseconds(), 10)

	// The delay queue is addressed through the default exchange by name.
	return r.publish(ctx, "", r.delayQueue, pub)
}

func (r *RabbitMQClient) publish(ctx context.Context, exchange, key string, pub amqp.Publishing) (int64, error) {
	if !r.IsHealthy() {
		return 0, fmt.Errorf("broker connection is closed")
	}

	l := r.logger.With(
		"correlation_id", pub.CorrelationId,
		"routing_key", key,
	)

	deferred, err := r.channel.PublishWithDeferredConfirmWithContext(
		ctx,
		exchange,
		key,
		false,
		false,
		pub,
	)
	if err != nil {
		l.Error("failed to publish message", "error", err)
		return 0, fmt.Errorf("publish call failed: %v", err)
	}

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-deferred.Done():
		if !deferred.Acked() {
			return 0, fmt.Errorf("RabbitMQ NACK received: message not persisted")
		}
		return int64(deferred.DeliveryTag), nil
	case <-time.After(confirmTimeout):
		return 0, fmt.Errorf("publisher confirm timeout")
	}
}

func publishing(msg models.QueuedMessage) amqp.Publishing {
	headers := amqp.Table{}
	for k, v := range msg.Properties {
		headers[k] = v
	}

	return amqp.Publishing{
		Headers:       headers,
		ContentType:   msg.ContentType,
		DeliveryMode:  amqp.Persistent,
		MessageId:     msg.MessageID,
		CorrelationId: msg.CorrelationID,
		Body:          msg.Body,
	}
}

// Close gracefully shuts down the RabbitMQ resources.
func (r *RabbitMQClient) Close() error {
	r.closeOnce.Do(func() {
		r.logger.Info("Terminating RabbitMQ client")
		r.cancel()
		if r.channel != nil {
			r.channel.Close()
		}
		if r.conn != nil {
			r.conn.Close()
		}
	})
	return nil
}

// IsHealthy returns true if the connection and channel are active.
func (r *RabbitMQClient) IsHealthy() bool {
	return r.healthy.Load()
}
