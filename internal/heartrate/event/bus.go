package event

import (
	"context"
	"errors"
	"sync"

	"github.com/shandysiswandi/healthmon/internal/heartrate/entity"
)

var (
	ErrBusClosed = errors.New("event bus is closed")
	ErrBusFull   = errors.New("event bus is full")
)

// Bus is a bounded in-process queue of abnormal reading events.
//
// Publish never blocks: a full buffer drops the event with ErrBusFull so a
// slow notifier cannot stall request handling.
type Bus struct {
	mu     sync.RWMutex
	closed bool
	ch     chan entity.AbnormalReadingEvent
}

func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}

	return &Bus{
		ch: make(chan entity.AbnormalReadingEvent, buffer),
	}
}

func (b *Bus) Publish(ctx context.Context, event entity.AbnormalReadingEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case b.ch <- event:
		return nil
	default:
		return ErrBusFull
	}
}

func (b *Bus) Subscribe() <-chan entity.AbnormalReadingEvent {
	return b.ch
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	close(b.ch)
}
