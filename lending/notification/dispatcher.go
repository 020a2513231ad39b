package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultBufferSize  = 256
	DefaultSendTimeout = 5 * time.Second

	logMsgNotificationDropped = "notification dropped, buffer full"
	logMsgNotificationFailed  = "notification could not be sent"

	logAttrKind     = "kind"
	logAttrPatronID = "patron_id"
	logAttrBookID   = "book_id"
	logAttrError    = "error"
)

// Dispatcher hands notifications to a Sender from a bounded buffer in one background goroutine.
// Notify never blocks: with a full buffer, or after Close, the notification is dropped.
type Dispatcher struct {
	sender      Sender
	logger      *slog.Logger
	sendTimeout time.Duration
	buffer      chan Notification

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithBufferSize sets how many notifications may wait for delivery.
func WithBufferSize(size int) DispatcherOption {
	return func(d *Dispatcher) {
		if size > 0 {
			d.buffer = make(chan Notification, size)
		}
	}
}

// WithSendTimeout bounds each Send call.
func WithSendTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.sendTimeout = timeout
		}
	}
}

// NewDispatcher creates a Dispatcher and starts its delivery goroutine.
func NewDispatcher(sender Sender, logger *slog.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		sender:      sender,
		logger:      logger,
		sendTimeout: DefaultSendTimeout,
		buffer:      make(chan Notification, DefaultBufferSize),
		done:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = slog.Default()
	}

	go d.run()

	return d
}

// Notify queues the notification for delivery and reports whether it was accepted.
func (d *Dispatcher) Notify(notification Notification) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return false
	}

	select {
	case d.buffer <- notification:
		return true
	default:
		d.logger.Warn(logMsgNotificationDropped, d.attrs(notification)...)

		return false
	}
}

// Close stops accepting notifications and waits until the buffered ones were handed to the Sender
// or ctx ends.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.buffer)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for notification := range d.buffer {
		ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)

		if err := d.sender.Send(ctx, notification); err != nil {
			d.logger.Error(logMsgNotificationFailed, append(d.attrs(notification), logAttrError, err.Error())...)
		}

		cancel()
	}
}

func (d *Dispatcher) attrs(notification Notification) []any {
	return []any{
		logAttrKind, notification.Kind,
		logAttrPatronID, notification.PatronID,
		logAttrBookID, notification.BookID,
	}
}
