// Package feed holds server-backed lists with optimistic local entries.
//
// A List has two segments: the server segment, replaced wholesale on every
// successful poll, and a local overlay of records the user submitted. Local
// records carry a status. Pending and failed records survive a replace so a
// failed send stays visible and retryable; confirmed records are dropped on
// the next replace because the server copy supersedes them.
package feed

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a locally originated record.
type Status int

const (
	StatusPending Status = iota
	StatusConfirmed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirmed:
		return "confirmed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LocalPrefix prefixes every client-generated id.
const LocalPrefix = "local-"

// NewLocalID returns a fresh client-generated id.
func NewLocalID() string {
	return LocalPrefix + uuid.NewString()
}

// Item is one displayed row.
type Item[T any] struct {
	Value   T
	LocalID string // empty for server records
	Status  Status // meaningful only when Local
	Err     error  // set when Status is StatusFailed
}

// Local reports whether the row is a locally originated record.
func (i Item[T]) Local() bool { return i.LocalID != "" }

type localEntry[T any] struct {
	id     string
	value  T
	status Status
	err    error
}

// Stamp fills in the temporary id and creation time of a local record.
type Stamp[T any] func(value T, localID string, at time.Time) T

// ListOption configures a List.
type ListOption[T any] func(*List[T])

// WithStamp sets the function that stamps appended records.
func WithStamp[T any](s Stamp[T]) ListOption[T] {
	return func(l *List[T]) { l.stamp = s }
}

// WithClock overrides time.Now.
func WithClock[T any](now func() time.Time) ListOption[T] {
	return func(l *List[T]) { l.now = now }
}

// List is a server list plus a local overlay. It is safe for concurrent use.
type List[T any] struct {
	mu       sync.RWMutex
	server   []T
	local    []*localEntry[T]
	replaces int
	stamp    Stamp[T]
	now      func() time.Time
}

// NewList creates an empty list.
func NewList[T any](opts ...ListOption[T]) *List[T] {
	l := &List[T]{now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append adds value as a pending local record and returns its local id.
// The record is visible in Items immediately.
func (l *List[T]) Append(value T) string {
	id := NewLocalID()
	if l.stamp != nil {
		value = l.stamp(value, id, l.now())
	}

	l.mu.Lock()
	l.local = append(l.local, &localEntry[T]{id: id, value: value, status: StatusPending})
	l.mu.Unlock()
	return id
}

// Confirm marks a local record as accepted by the server. It stays visible
// until the next Replace.
func (l *List[T]) Confirm(localID string) bool {
	return l.update(localID, func(e *localEntry[T]) {
		e.status, e.err = StatusConfirmed, nil
	})
}

// Fail marks a local record as failed.
func (l *List[T]) Fail(localID string, err error) bool {
	return l.update(localID, func(e *localEntry[T]) {
		e.status, e.err = StatusFailed, err
	})
}

// Retry moves a failed record back to pending and returns its value for
// resubmission. It returns false if the record is unknown or not failed.
func (l *List[T]) Retry(localID string) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.local {
		if e.id == localID && e.status == StatusFailed {
			e.status, e.err = StatusPending, nil
			return e.value, true
		}
	}
	var zero T
	return zero, false
}

// Dismiss removes a local record regardless of status.
func (l *List[T]) Dismiss(localID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.local {
		if e.id == localID {
			l.local = append(l.local[:i], l.local[i+1:]...)
			return true
		}
	}
	return false
}

func (l *List[T]) update(localID string, fn func(*localEntry[T])) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.local {
		if e.id == localID {
			fn(e)
			return true
		}
	}
	return false
}

// Replace swaps the server segment for items and drops confirmed local
// records.
func (l *List[T]) Replace(items []T) {
	server := make([]T, len(items))
	copy(server, items)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.server = server
	l.replaces++

	kept := l.local[:0]
	for _, e := range l.local {
		if e.status != StatusConfirmed {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(l.local); i++ {
		l.local[i] = nil
	}
	l.local = kept
}

// Reset clears both segments, for example when the selected channel changes.
func (l *List[T]) Reset() {
	l.mu.Lock()
	l.server = nil
	l.local = nil
	l.replaces = 0
	l.mu.Unlock()
}

// Items returns the server records followed by local records in submit order.
func (l *List[T]) Items() []Item[T] {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Item[T], 0, len(l.server)+len(l.local))
	for _, v := range l.server {
		out = append(out, Item[T]{Value: v})
	}
	for _, e := range l.local {
		out = append(out, Item[T]{Value: e.value, LocalID: e.id, Status: e.status, Err: e.err})
	}
	return out
}

// Server returns a copy of the server segment.
func (l *List[T]) Server() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]T, len(l.server))
	copy(out, l.server)
	return out
}

// Counts returns how many local records are pending and failed.
func (l *List[T]) Counts() (pending, failed int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, e := range l.local {
		switch e.status {
		case StatusPending:
			pending++
		case StatusFailed:
			failed++
		}
	}
	return pending, failed
}

// Loaded reports whether at least one server response has been applied.
func (l *List[T]) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.replaces > 0
}
