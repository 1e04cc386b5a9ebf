// Package poll keeps a locally displayed value approximately fresh with a
// server-held resource by reading it on a fixed interval.
//
// A Poller reads one named resource (the key) at a time. Every fetch is
// tagged with a monotonically increasing sequence number; results for a key
// that is no longer selected, or older than a result already applied, are
// discarded. Fetch errors are logged and swallowed: the previous value stays
// on screen and the next tick retries.
package poll

import (
	"context"
	"sync"
	"time"

	"careerdeck/internal/logging"
)

// FetchFunc reads the resource identified by key.
type FetchFunc[T any] func(ctx context.Context, key string) (T, error)

// Result is a successful fetch. Pass it to Accept before applying it.
type Result[T any] struct {
	Poller string
	Key    string
	Seq    uint64
	Value  T
}

// Outcome classifies what happened to a tick.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeStale   Outcome = "stale"   // result dropped: key changed, newer result, or closed
	OutcomeSkipped Outcome = "skipped" // tick skipped: previous fetch still in flight
)

// Observer receives one call per tick outcome.
type Observer interface {
	ObservePoll(poller string, outcome Outcome, elapsed time.Duration)
}

type tickerFunc func(time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Option configures a Poller.
type Option func(*options)

type options struct {
	observer Observer
	ticker   tickerFunc
	parent   context.Context
}

// WithObserver reports tick outcomes to o.
func WithObserver(o Observer) Option {
	return func(opts *options) { opts.observer = o }
}

// WithContext sets the parent context for fetches. Cancelling it cancels
// in-flight fetches but does not stop the poller; use Close for that.
func WithContext(ctx context.Context) Option {
	return func(opts *options) { opts.parent = ctx }
}

// withTicker replaces the wall-clock ticker, for tests.
func withTicker(t tickerFunc) Option {
	return func(opts *options) { opts.ticker = t }
}

// Poller periodically fetches the currently selected key.
type Poller[T any] struct {
	name     string
	interval time.Duration
	fetch    FetchFunc[T]
	opts     options

	mu       sync.Mutex
	key      string
	seq      uint64 // latest sequence number issued
	epoch    uint64 // seq at the last key change; results at or below it are stale
	applied  uint64 // highest seq accepted
	inflight uint64 // seq of the fetch in flight for the current key, 0 if none
	keyCtx   context.Context
	cancel   context.CancelFunc
	started  bool
	closed   bool

	results chan Result[T]
	done    chan struct{}
	wg      sync.WaitGroup
}

// New creates a poller. It does nothing until Start is called.
func New[T any](name string, interval time.Duration, fetch FetchFunc[T], opts ...Option) *Poller[T] {
	o := options{ticker: realTicker, parent: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}
	p := &Poller[T]{
		name:     name,
		interval: interval,
		fetch:    fetch,
		opts:     o,
		results:  make(chan Result[T], 1),
		done:     make(chan struct{}),
	}
	p.keyCtx, p.cancel = context.WithCancel(o.parent)
	return p
}

// Name returns the poller name used in logs and metrics.
func (p *Poller[T]) Name() string { return p.name }

// Results delivers successful fetches. Only the newest undelivered result is
// buffered. The channel is closed by Close.
func (p *Poller[T]) Results() <-chan Result[T] { return p.results }

// Start launches the tick loop and fetches the current key immediately.
func (p *Poller[T]) Start() {
	p.mu.Lock()
	if p.started || p.closed {
		p.mu.Unlock()
		return
	}
	p.started = true
	ticks, stop := p.opts.ticker(p.interval)
	p.wg.Add(1)
	p.mu.Unlock()

	go p.loop(ticks, stop)
	p.Refresh()
}

func (p *Poller[T]) loop(ticks <-chan time.Time, stop func()) {
	defer p.wg.Done()
	defer stop()
	for {
		select {
		case <-p.done:
			return
		case <-ticks:
			p.Refresh()
		}
	}
}

// Key returns the currently selected key.
func (p *Poller[T]) Key() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.key
}

// SetKey selects the resource to poll. An empty key pauses polling. Any
// fetch in flight for the previous key is cancelled and its result will be
// discarded. If the poller is running the new key is fetched immediately.
func (p *Poller[T]) SetKey(key string) {
	p.mu.Lock()
	if p.closed || key == p.key {
		p.mu.Unlock()
		return
	}
	prev := p.key
	p.cancel()
	p.keyCtx, p.cancel = context.WithCancel(p.opts.parent)
	p.key = key
	p.seq++
	p.epoch = p.seq
	p.inflight = 0
	select {
	case <-p.results:
	default:
	}
	started := p.started
	p.mu.Unlock()

	logging.PollDebug("%s: key %q -> %q", p.name, prev, key)
	if started {
		p.Refresh()
	}
}

// Refresh fetches the current key now unless a fetch is already in flight
// or no key is selected.
func (p *Poller[T]) Refresh() {
	p.mu.Lock()
	if p.closed || p.key == "" {
		p.mu.Unlock()
		return
	}
	if p.inflight != 0 {
		p.mu.Unlock()
		p.observe(OutcomeSkipped, 0)
		return
	}
	p.seq++
	seq, key, ctx := p.seq, p.key, p.keyCtx
	p.inflight = seq
	p.wg.Add(1)
	p.mu.Unlock()

	go p.fetchOnce(ctx, key, seq)
}

func (p *Poller[T]) fetchOnce(ctx context.Context, key string, seq uint64) {
	defer p.wg.Done()

	start := time.Now()
	value, err := p.fetch(ctx, key)
	elapsed := time.Since(start)

	p.mu.Lock()
	if p.inflight == seq {
		p.inflight = 0
	}
	stale := p.closed || key != p.key || seq <= p.epoch
	if err == nil && !stale {
		// Replace any undelivered older result.
		select {
		case <-p.results:
		default:
		}
		p.results <- Result[T]{Poller: p.name, Key: key, Seq: seq, Value: value}
	}
	p.mu.Unlock()

	switch {
	case stale:
		logging.PollDebug("%s: dropped stale response for %q (seq %d)", p.name, key, seq)
		p.observe(OutcomeStale, elapsed)
	case err != nil:
		logging.PollDebug("%s: fetch %q failed, keeping previous value: %v", p.name, key, err)
		p.observe(OutcomeFailure, elapsed)
	default:
		p.observe(OutcomeSuccess, elapsed)
	}
}

// Accept reports whether r may be applied: the poller is open, r is for the
// selected key, and no newer result has been accepted. Accepting r marks it
// as the newest applied result.
func (p *Poller[T]) Accept(r Result[T]) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || r.Key != p.key || r.Seq <= p.epoch || r.Seq <= p.applied {
		return false
	}
	p.applied = r.Seq
	return true
}

// Close stops the ticker, cancels any in-flight fetch, waits for every
// goroutine to exit and closes Results. Safe to call more than once.
func (p *Poller[T]) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.cancel()
	close(p.done)
	p.mu.Unlock()

	p.wg.Wait()
	close(p.results)
	logging.PollDebug("%s: closed", p.name)
}

func (p *Poller[T]) observe(o Outcome, elapsed time.Duration) {
	if p.opts.observer != nil {
		p.opts.observer.ObservePoll(p.name, o, elapsed)
	}
}
