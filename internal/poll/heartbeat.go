package poll

import (
	"context"
	"sync"
	"time"

	"careerdeck/internal/logging"
)

// Heartbeat calls a function on a fixed interval until stopped. Errors are
// logged and ignored.
type Heartbeat struct {
	name     string
	interval time.Duration
	beat     func(context.Context) error
	ticker   tickerFunc

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	wg      sync.WaitGroup
}

// NewHeartbeat creates a heartbeat. It does nothing until Start is called.
func NewHeartbeat(name string, interval time.Duration, beat func(context.Context) error) *Heartbeat {
	return &Heartbeat{name: name, interval: interval, beat: beat, ticker: realTicker}
}

// Start begins beating. The first beat fires after one interval.
func (h *Heartbeat) Start(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.running = true

	ctx, h.cancel = context.WithCancel(ctx)
	ticks, stop := h.ticker(h.interval)
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticks:
				if err := h.beat(ctx); err != nil {
					logging.PollDebug("%s: heartbeat failed: %v", h.name, err)
				}
			}
		}
	}()
}

// Stop stops the heartbeat and waits for the loop to exit.
func (h *Heartbeat) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.cancel()
	h.mu.Unlock()
	h.wg.Wait()
}
