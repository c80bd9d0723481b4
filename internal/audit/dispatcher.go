package audit

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

const (
	ActionOrderCreated         = "order_created"
	ActionOrderUpdated         = "order_updated"
	ActionOrderStatusChanged   = "order_status_changed"
	ActionUserRegistered       = "user_registered"
	ActionUserUpdated          = "user_updated"
	ActionUserLogin            = "user_login"
	ActionUserLogout           = "user_logout"
	ActionSubscriptionGranted  = "subscription_granted"
	ActionSubscriptionModified = "subscription_updated"
	ActionReviewCreated        = "review_created"
)

type Event struct {
	ActorID  *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Sink accepts audit events. Use cases depend on this rather than on the
// dispatcher so they can be tested with a recorder.
type Sink interface {
	Dispatch(ev Event)
}

type Dispatcher struct {
	logger *Logger
	log    *zap.Logger
	queue  chan Event
	wg     sync.WaitGroup
	once   sync.Once
	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(logger *Logger, log *zap.Logger, size int) *Dispatcher {
	if size <= 0 {
		size = 100
	}

	d := &Dispatcher{
		logger: logger,
		log:    log,
		queue:  make(chan Event, size),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for ev := range d.queue {
		if err := d.logger.Log(context.Background(), ev); err != nil {
			d.log.Error("audit write failed",
				zap.String("action", ev.Action),
				zap.String("entity", ev.Entity),
				zap.Error(err),
			)
		}
	}
}

// Dispatch never blocks the request: when the queue is full the event is
// dropped and logged.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event",
			zap.String("action", ev.Action),
		)
	}
}

// Close stops accepting events and waits until the queue is written.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})
	d.wg.Wait()
}
