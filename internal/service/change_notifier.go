package service

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"patient-portal/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Listener handles a change event that originated in another instance.
type Listener func(ctx context.Context, event entity.ChangeEvent)

// ChangeNotifier fans mutation events out to every other running instance
// and dispatches their events to local listeners. Delivery is best-effort:
// publish failures are logged, never returned, and an instance never
// receives its own events.
type ChangeNotifier struct {
	transport  Transport
	log        *logrus.Logger
	instanceID string

	mu        sync.RWMutex
	listeners map[uint64]Listener
	nextID    uint64

	started atomic.Bool
}

// NewChangeNotifier wraps transport. A nil transport behaves like
// NoopTransport.
func NewChangeNotifier(transport Transport, log *logrus.Logger) *ChangeNotifier {
	if transport == nil {
		transport = NewNoopTransport()
	}
	return &ChangeNotifier{
		transport:  transport,
		log:        log,
		instanceID: uuid.NewString(),
		listeners:  make(map[uint64]Listener),
	}
}

func (n *ChangeNotifier) InstanceID() string {
	return n.instanceID
}

// Subscribe registers listener and returns its unsubscribe func, which is
// safe to call more than once.
func (n *ChangeNotifier) Subscribe(listener Listener) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = listener
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.listeners, id)
			n.mu.Unlock()
		})
	}
}

func (n *ChangeNotifier) ListenerCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// Publish stamps the event with this instance's id and hands it to the
// transport.
func (n *ChangeNotifier) Publish(ctx context.Context, event entity.ChangeEvent) {
	event.Origin = n.instanceID
	event.SentAt = time.Now().UTC()

	data, err := json.Marshal(event)
	if err != nil {
		n.log.Warnf("Failed to encode change event %s: %+v", event.Type, err)
		return
	}

	if err := n.transport.Publish(ctx, data); err != nil {
		n.log.Warnf("Failed to broadcast change event %s: %+v", event.Type, err)
		return
	}

	n.log.Debugf("Broadcast change event %s", event.Type)
}

// Start begins receiving events from the transport. Calls after the first
// are no-ops.
func (n *ChangeNotifier) Start(ctx context.Context) error {
	if !n.started.CompareAndSwap(false, true) {
		return nil
	}
	if err := n.transport.Subscribe(ctx, n.handle); err != nil {
		n.started.Store(false)
		return err
	}
	return nil
}

func (n *ChangeNotifier) Stop() error {
	return n.transport.Close()
}

func (n *ChangeNotifier) handle(message []byte) {
	var event entity.ChangeEvent
	if err := json.Unmarshal(message, &event); err != nil {
		n.log.Warnf("Dropping malformed change event: %+v", err)
		return
	}
	if event.Type == "" || event.Origin == n.instanceID {
		return
	}

	n.mu.RLock()
	listeners := make([]Listener, 0, len(n.listeners))
	for _, listener := range n.listeners {
		listeners = append(listeners, listener)
	}
	n.mu.RUnlock()

	n.log.Debugf("Received change event %s from %s", event.Type, event.Origin)

	ctx := context.Background()
	for _, listener := range listeners {
		listener(ctx, event)
	}
}
