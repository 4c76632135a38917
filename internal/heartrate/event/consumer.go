package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shandysiswandi/healthmon/internal/heartrate/entity"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkglog"
)

type Notifier interface {
	Notify(ctx context.Context, event entity.AbnormalReadingEvent) error
}

type ConsumerConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
}

// AlertConsumer drains the bus with a fixed worker pool and hands every
// abnormal reading to the notifier, retrying with exponential backoff.
// The bus never redelivers, so no per-event state is kept.
type AlertConsumer struct {
	bus         *Bus
	notifier    Notifier
	workers     int
	maxRetries  int
	baseBackoff time.Duration
	wg          sync.WaitGroup
	stop        chan struct{}
	stopOnce    sync.Once
}

func NewAlertConsumer(bus *Bus, notifier Notifier, cfg ConsumerConfig) *AlertConsumer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 2
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 100 * time.Millisecond
	}

	return &AlertConsumer{
		bus:         bus,
		notifier:    notifier,
		workers:     workers,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
		stop:        make(chan struct{}),
	}
}

func (c *AlertConsumer) Start() {
	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker()
	}
}

// Stop closes the bus and waits for queued events to drain or ctx to expire.
// Pending retries are abandoned once ctx is done.
func (c *AlertConsumer) Stop(ctx context.Context) error {
	if c.bus != nil {
		c.bus.Close()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		c.stopOnce.Do(func() { close(c.stop) })
		return ctx.Err()
	}
}

func (c *AlertConsumer) worker() {
	defer c.wg.Done()

	for event := range c.bus.Subscribe() {
		c.processEvent(event)
	}
}

func (c *AlertConsumer) processEvent(event entity.AbnormalReadingEvent) {
	if c.notifier == nil {
		return
	}

	ctx := pkglog.SetCorrelationID(context.Background(), event.CorrelationID)

	backoff := c.baseBackoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		err := c.notifier.Notify(ctx, event)
		if err == nil {
			return
		}

		if attempt == c.maxRetries {
			slog.ErrorContext(ctx, "failed to deliver heart rate alert after retries", "event_id", event.EventID, "attempts", attempt+1, "error", err)
			return
		}

		if !c.sleepBackoff(backoff) {
			return
		}
		backoff *= 2
	}
}

func (c *AlertConsumer) sleepBackoff(d time.Duration) bool {
	if d <= 0 {
		return false
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-c.stop:
		return false
	}
}

// LogNotifier reports alerts as warning log records.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, event entity.AbnormalReadingEvent) error {
	if event.EventID == "" {
		return errors.New("missing event id")
	}

	slog.WarnContext(ctx, "abnormal heart rate",
		"event_id", event.EventID,
		"reading_id", event.Reading.ID,
		"heart_rate", event.Reading.HeartRate,
		"timestamp", event.Reading.FormattedTimestamp(),
		"level", string(event.Level),
		"low", event.Thresholds.Low,
		"high", event.Thresholds.High,
	)
	return nil
}
