package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/uav-store/backend/internal/events"
)

const deliveryTimeout = 10 * time.Second

// ErrQueueFull is returned to the dispatcher when an event cannot be queued.
var ErrQueueFull = errors.New("notification queue full")

// Notifier delivers a single event.
type Notifier interface {
	Notify(ctx context.Context, event events.Event) error
}

// NotificationWorker moves bill notifications off the request path. Events
// are queued by dispatcher handlers and delivered by Run.
type NotificationWorker struct {
	notifier Notifier
	logger   *zap.Logger
	queue    chan events.Event
}

// NewNotificationWorker builds a worker with room for size pending events.
func NewNotificationWorker(notifier Notifier, logger *zap.Logger, size int) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if size <= 0 {
		size = 1
	}
	return &NotificationWorker{
		notifier: notifier,
		logger:   logger,
		queue:    make(chan events.Event, size),
	}
}

// Subscribe queues every bill event published on d.
func (w *NotificationWorker) Subscribe(d events.Dispatcher) {
	d.Subscribe(events.EventBillCreated, w.enqueue)
	d.Subscribe(events.EventBillPaymentStatusChanged, w.enqueue)
}

// enqueue never blocks the publisher; a full queue drops the event.
func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run delivers queued events until ctx is cancelled, then flushes whatever is
// still queued before returning.
func (w *NotificationWorker) Run(ctx context.Context) {
	for {
		select {
		case event := <-w.queue:
			w.deliver(event)
		case <-ctx.Done():
			w.flush()
			return
		}
	}
}

func (w *NotificationWorker) flush() {
	for {
		select {
		case event := <-w.queue:
			w.deliver(event)
		default:
			return
		}
	}
}

// deliver detaches from the publishing request, which has usually finished
// by the time the event is picked up.
func (w *NotificationWorker) deliver(event events.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()
	if err := w.notifier.Notify(ctx, event); err != nil {
		w.logger.Warn("notification failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.String("bill_id", event.BillID),
			zap.Error(err))
	}
}
