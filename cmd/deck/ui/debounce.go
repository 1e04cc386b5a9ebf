package ui

import (
	"sync"
	"time"
)

// Debouncer runs a function once activity has been quiet for a duration.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
}

// NewDebouncer creates a new debouncer with the specified duration
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
	}
}

// Debounce executes the function after the debounce duration has elapsed
// without any new calls. Rapid successive calls reset the timer.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel cancels any pending debounced function call
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Immediate executes the function immediately and cancels any pending call
func (d *Debouncer) Immediate(fn func()) {
	d.Cancel()
	fn()
}

// ValueDebouncer debounces a stream of values and hands only the latest to
// the handler, e.g. editor contents to push or a split ratio to persist.
type ValueDebouncer[T any] struct {
	debouncer *Debouncer
	mu        sync.Mutex
	pending   T
	last      T
	hasLast   bool
}

// NewValueDebouncer creates a value debouncer.
func NewValueDebouncer[T any](duration time.Duration) *ValueDebouncer[T] {
	return &ValueDebouncer[T]{debouncer: NewDebouncer(duration)}
}

// Submit records v and schedules handler with the latest value.
func (vd *ValueDebouncer[T]) Submit(v T, handler func(T)) {
	vd.mu.Lock()
	vd.pending = v
	vd.mu.Unlock()

	vd.debouncer.Debounce(func() {
		vd.mu.Lock()
		latest := vd.pending
		vd.last, vd.hasLast = latest, true
		vd.mu.Unlock()

		handler(latest)
	})
}

// Last returns the last value handed to a handler.
func (vd *ValueDebouncer[T]) Last() (T, bool) {
	vd.mu.Lock()
	defer vd.mu.Unlock()
	return vd.last, vd.hasLast
}

// Cancel drops any pending value.
func (vd *ValueDebouncer[T]) Cancel() {
	vd.debouncer.Cancel()
}

// DefaultRatioPersistDelay is how long a split ratio must stay put before it
// is saved.
const DefaultRatioPersistDelay = 500 * time.Millisecond
