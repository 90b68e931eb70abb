package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultChannel is the pub/sub channel every instance listens on.
const DefaultChannel = "patient_data_channel"

var _ Transport = (*RedisTransport)(nil)

// RedisTransport relays change events through Redis PUBLISH/SUBSCRIBE.
// Messages are fire-and-forget: an instance that is not subscribed at
// publish time never sees them.
//
// Call Close during graceful shutdown; it stops the reader goroutine but
// leaves the client open for its owner to close.
type RedisTransport struct {
	client  *redis.Client
	channel string
	log     *logrus.Logger

	mu     sync.Mutex
	pubsub *redis.PubSub

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

func NewRedisTransport(client *redis.Client, channel string, log *logrus.Logger) *RedisTransport {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisTransport{
		client:   client,
		channel:  channel,
		log:      log,
		stopChan: make(chan struct{}),
	}
}

func (t *RedisTransport) Publish(ctx context.Context, message []byte) error {
	if t.stopped.Load() {
		return ErrTransportClosed
	}
	if err := t.client.Publish(ctx, t.channel, message).Err(); err != nil {
		return fmt.Errorf("redis publish on %s: %w", t.channel, err)
	}
	return nil
}

// Subscribe waits for the subscription to be confirmed, then delivers
// messages to handler from a background goroutine until Close.
func (t *RedisTransport) Subscribe(ctx context.Context, handler func([]byte)) error {
	if t.stopped.Load() {
		return ErrTransportClosed
	}

	pubsub := t.client.Subscribe(ctx, t.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return fmt.Errorf("redis subscribe to %s: %w", t.channel, err)
	}

	t.mu.Lock()
	t.pubsub = pubsub
	t.mu.Unlock()

	t.wg.Add(1)
	go t.receiveLoop(pubsub.Channel(), handler)

	t.log.Infof("Subscribed to change channel %s", t.channel)
	return nil
}

func (t *RedisTransport) receiveLoop(messages <-chan *redis.Message, handler func([]byte)) {
	defer t.wg.Done()

	for {
		select {
		case <-t.stopChan:
			t.log.Debug("Change channel receiver stopping")
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			handler([]byte(msg.Payload))
		}
	}
}

// Close is safe to call multiple times.
func (t *RedisTransport) Close() error {
	if !t.stopped.CompareAndSwap(false, true) {
		return nil
	}
	close(t.stopChan)

	t.mu.Lock()
	pubsub := t.pubsub
	t.mu.Unlock()

	var err error
	if pubsub != nil {
		err = pubsub.Close()
	}
	t.wg.Wait()
	return err
}
