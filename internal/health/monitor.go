package health

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Pinger is anything whose connection health can be probed. Both store
// backends satisfy it.
type Pinger interface {
	CheckHealth(ctx context.Context) error
}

// Monitor periodically pings the record store so its availability flag
// tracks the real connection state between requests.
type Monitor struct {
	scheduler *gocron.Scheduler
	store     Pinger
	interval  time.Duration
}

// New creates a new Monitor.
func New(store Pinger, interval time.Duration) *Monitor {
	return &Monitor{
		scheduler: gocron.NewScheduler(time.UTC),
		store:     store,
		interval:  interval,
	}
}

// Start schedules the periodic ping and starts the underlying
// scheduler.
func (m *Monitor) Start() error {
	seconds := int(m.interval.Seconds())
	if seconds <= 0 {
		seconds = 15
	}

	_, err := m.scheduler.Every(seconds).Seconds().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := m.store.CheckHealth(ctx); err != nil {
			log.Printf("health: store ping failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	m.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future pings.
func (m *Monitor) Stop() {
	if m.scheduler != nil {
		m.scheduler.Stop()
	}
}
