package feed

import "sync"

// Buffer is the shared code-editor buffer. Local edits win while they are
// unsynced: remote code is applied only when the buffer is clean.
type Buffer struct {
	mu       sync.Mutex
	text     string
	gen      uint64 // bumped on every local edit
	syncedAt uint64 // gen of the last successful push
}

// Load replaces the buffer with a fresh server snapshot and marks it clean.
func (b *Buffer) Load(code string) {
	b.mu.Lock()
	b.text = code
	b.gen++
	b.syncedAt = b.gen
	b.mu.Unlock()
}

// Edit records a local edit and returns its generation.
func (b *Buffer) Edit(text string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if text == b.text {
		return b.gen
	}
	b.text = text
	b.gen++
	return b.gen
}

// Text returns the current buffer.
func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// Dirty reports whether local edits have not been pushed.
func (b *Buffer) Dirty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gen != b.syncedAt
}

// Snapshot returns the text and generation to push.
func (b *Buffer) Snapshot() (string, uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text, b.gen
}

// Pushed records a successful push of generation gen. Edits made after the
// snapshot keep the buffer dirty.
func (b *Buffer) Pushed(gen uint64) {
	b.mu.Lock()
	if gen > b.syncedAt && gen <= b.gen {
		b.syncedAt = gen
	}
	b.mu.Unlock()
}

// ApplyRemote applies polled server code. It returns true if the buffer
// changed; remote code is ignored while local edits are unsynced.
func (b *Buffer) ApplyRemote(code string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gen != b.syncedAt || code == b.text {
		return false
	}
	b.text = code
	b.gen++
	b.syncedAt = b.gen
	return true
}
