package service

import (
	"context"
	"errors"
)

// ErrTransportClosed is returned when publishing on a closed transport.
var ErrTransportClosed = errors.New("notifier transport closed")

// Transport carries encoded change events between running instances.
// Subscribe delivers every message published on the channel, including the
// subscriber's own; origin filtering is the notifier's job.
type Transport interface {
	Publish(ctx context.Context, message []byte) error
	Subscribe(ctx context.Context, handler func(message []byte)) error
	Close() error
}

// NoopTransport is used when no channel is available. Publishing succeeds
// and nothing is ever delivered.
type NoopTransport struct{}

func NewNoopTransport() *NoopTransport {
	return &NoopTransport{}
}

func (NoopTransport) Publish(context.Context, []byte) error { return nil }

func (NoopTransport) Subscribe(context.Context, func([]byte)) error { return nil }

func (NoopTransport) Close() error { return nil }
