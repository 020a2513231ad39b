package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultQueueName = "lending.notifications"

var (
	// ErrBrokerUnavailable is returned when the connection or channel to the broker cannot be opened.
	ErrBrokerUnavailable = errors.New("message broker unavailable")

	// ErrPublishFailed is returned when a notification could not be published.
	ErrPublishFailed = errors.New("publishing notification failed")
)

// RabbitMQPublisher publishes notifications as persistent JSON messages to a durable queue
// through the default exchange. It keeps one connection and reopens it after the broker dropped it.
type RabbitMQPublisher struct {
	url   string
	queue string

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewRabbitMQPublisher connects to the broker and declares the queue.
func NewRabbitMQPublisher(url string, queue string) (*RabbitMQPublisher, error) {
	if queue == "" {
		queue = DefaultQueueName
	}

	p := &RabbitMQPublisher{url: url, queue: queue}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.connect(); err != nil {
		return nil, err
	}

	return p, nil
}

// Send publishes the notification.
func (p *RabbitMQPublisher) Send(ctx context.Context, notification Notification) error {
	body, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(notification)
	if err != nil {
		return errors.Join(ErrPublishFailed, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() {
		if err := p.connect(); err != nil {
			return err
		}
	}

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         notification.Kind,
		Body:         body,
	}

	if err := p.channel.PublishWithContext(ctx, "", p.queue, false, false, publishing); err != nil {
		return errors.Join(ErrPublishFailed, err)
	}

	return nil
}

// Close closes the channel and the connection.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.closeLocked()
}

func (p *RabbitMQPublisher) connect() error {
	_ = p.closeLocked()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return errors.Join(ErrBrokerUnavailable, err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()

		return errors.Join(ErrBrokerUnavailable, err)
	}

	if _, err := channel.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()

		return errors.Join(ErrBrokerUnavailable, err)
	}

	p.conn = conn
	p.channel = channel

	return nil
}

func (p *RabbitMQPublisher) closeLocked() error {
	var errs []error

	if p.channel != nil && !p.channel.IsClosed() {
		errs = append(errs, p.channel.Close())
	}

	if p.conn != nil && !p.conn.IsClosed() {
		errs = append(errs, p.conn.Close())
	}

	p.channel = nil
	p.conn = nil

	return errors.Join(errs...)
}
