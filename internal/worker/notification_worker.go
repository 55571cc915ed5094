// Package worker runs event delivery off the request path.
package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/deskflow/helpdesk-service/internal/events"
	"github.com/deskflow/helpdesk-service/internal/service"
)

const defaultQueueSize = 256

// NotificationWorker is a Dispatcher that queues events and delivers them to
// an inner dispatcher from a single goroutine. When the queue is full the
// event is delivered inline.
type NotificationWorker struct {
	inner  events.Dispatcher
	logger *zap.Logger
	queue  chan events.Event

	mu      sync.RWMutex
	stopped bool
	done    chan struct{}
}

// StartNotificationWorker registers notification handlers on inner and starts delivery.
func StartNotificationWorker(inner events.Dispatcher, notifications *service.NotificationService, queueSize int, logger *zap.Logger) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	w := &NotificationWorker{
		inner:  inner,
		logger: logger,
		queue:  make(chan events.Event, queueSize),
		done:   make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *NotificationWorker) run() {
	defer close(w.done)
	for event := range w.queue {
		// request contexts are gone by now
		_ = w.inner.Publish(context.Background(), event)
	}
}

// Publish enqueues event.
func (w *NotificationWorker) Publish(ctx context.Context, event events.Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return w.inner.Publish(ctx, event)
	}
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full, delivering inline", zap.String("event_type", string(event.Type)))
		return w.inner.Publish(ctx, event)
	}
	return nil
}

// Subscribe registers handler on the inner dispatcher.
func (w *NotificationWorker) Subscribe(eventType events.EventType, handler events.EventHandler) {
	w.inner.Subscribe(eventType, handler)
}

// Stop drains queued events and waits for delivery to finish or ctx to end.
func (w *NotificationWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.queue)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
