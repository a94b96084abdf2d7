package session

// UpdateBuffer is a fixed-capacity ring of updates in arrival order.
// Appending at capacity evicts the oldest entry, so the buffer always
// holds the most recent updates. The zero value is not usable; use
// NewUpdateBuffer.
type UpdateBuffer struct {
	buf   []Update
	head  int
	count int
}

// NewUpdateBuffer creates a buffer holding at most capacity updates.
func NewUpdateBuffer(capacity int) *UpdateBuffer {
	if capacity <= 0 {
		capacity = DefaultMaxUpdates
	}
	return &UpdateBuffer{
		buf: make([]Update, capacity),
	}
}

// Append inserts u at the tail, evicting the head if the buffer is full.
func (b *UpdateBuffer) Append(u Update) {
	if b.count == len(b.buf) {
		b.buf[b.head] = u
		b.head = (b.head + 1) % len(b.buf)
		return
	}
	b.buf[(b.head+b.count)%len(b.buf)] = u
	b.count++
}

// Latest returns the most recently appended update.
func (b *UpdateBuffer) Latest() (Update, bool) {
	if b.count == 0 {
		return Update{}, false
	}
	return b.buf[(b.head+b.count-1)%len(b.buf)], true
}

// Snapshot returns an ordered copy of the buffered updates.
func (b *UpdateBuffer) Snapshot() []Update {
	out := make([]Update, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.buf[(b.head+i)%len(b.buf)]
	}
	return out
}

// Len returns the number of buffered updates.
func (b *UpdateBuffer) Len() int {
	return b.count
}

// Cap returns the buffer capacity.
func (b *UpdateBuffer) Cap() int {
	return len(b.buf)
}
