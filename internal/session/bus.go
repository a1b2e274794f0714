package session

import (
	"context"
	"fmt"
	"sync"
)

type Bus interface {
	Publish(ctx context.Context, ev Event) error
	StartForwarder(ctx context.Context, onEvent func(ev Event)) error
	Close() error
}

// memoryBus fans events out to in-process forwarders. Used when no Redis
// address is configured. A subscriber whose buffer is full misses the event.
type memoryBus struct {
	mu      sync.RWMutex
	nextID  int
	subs    map[int]chan Event
	closed  bool
	bufSize int
}

func NewMemoryBus() Bus {
	return &memoryBus{subs: make(map[int]chan Event), bufSize: 64}
}

func (b *memoryBus) Publish(ctx context.Context, ev Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return fmt.Errorf("session bus closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	dropped := 0
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		return fmt.Errorf("session bus: %d subscriber(s) full, event dropped", dropped)
	}
	return nil
}

func (b *memoryBus) StartForwarder(ctx context.Context, onEvent func(ev Event)) error {
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("session bus closed")
	}
	id := b.nextID
	b.nextID++
	ch := make(chan Event, b.bufSize)
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		defer b.unsubscribe(id)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				onEvent(ev)
			}
		}
	}()
	return nil
}

func (b *memoryBus) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

func (b *memoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
	return nil
}
