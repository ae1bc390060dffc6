// Package bus routes relay messages between the supervisor and the clipboard
// helper document.
//
// Delivery is asynchronous: Send validates the envelope, looks up the
// receiver registered for its target and hands the message to it on a new
// goroutine. Replies travel the same way in the opposite direction.
package bus

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/entrhq/tabcopy/pkg/logging"
	"github.com/entrhq/tabcopy/pkg/types"
)

// ErrNoReceiver is returned when no handler is registered for a message target.
var ErrNoReceiver = errors.New("could not establish connection: receiving end does not exist")

// Handler receives a message delivered to its target.
type Handler func(ctx context.Context, msg types.RelayMessage)

// Bus is an in-process message bus keyed by relay target.
type Bus struct {
	mu       sync.RWMutex
	handlers map[types.Target]Handler
	inflight sync.WaitGroup
	log      *logging.Logger
}

// New creates an empty bus.
func New(log *logging.Logger) *Bus {
	return &Bus{
		handlers: make(map[types.Target]Handler),
		log:      log,
	}
}

// Register installs the handler for target. Only one handler per target is allowed.
func (b *Bus) Register(target types.Target, handler Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.handlers[target]; exists {
		return fmt.Errorf("handler for target %q already registered", target)
	}
	b.handlers[target] = handler
	return nil
}

// Unregister removes the handler for target, if any.
func (b *Bus) Unregister(target types.Target) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, target)
}

// Registered reports whether target currently has a handler.
func (b *Bus) Registered(target types.Target) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.handlers[target]
	return ok
}

// Send validates msg and delivers it asynchronously.
// The delivery outlives ctx cancellation; ctx values are preserved.
func (b *Bus) Send(ctx context.Context, msg types.RelayMessage) error {
	if err := msg.Validate(); err != nil {
		b.log.Warnf("rejected relay message: %v", err)
		return fmt.Errorf("invalid relay message: %w", err)
	}

	b.mu.RLock()
	handler, ok := b.handlers[msg.Target]
	b.mu.RUnlock()
	if !ok {
		return fmt.Errorf("send %s to %s: %w", msg.Action, msg.Target, ErrNoReceiver)
	}

	deliveryCtx := context.WithoutCancel(ctx)
	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				b.log.Errorf("handler for %s panicked on %s: %v", msg.Target, msg.Action, r)
			}
		}()
		handler(deliveryCtx, msg)
	}()
	return nil
}

// Wait blocks until every delivery started so far has returned.
func (b *Bus) Wait() {
	b.inflight.Wait()
}
