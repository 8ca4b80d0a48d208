package buffer

// Buffer accumulates bytes read off a connection until a complete message
// head can be carved out of them. It is bounded: Append reports false once
// the configured cap would be exceeded, leaving the contents untouched.
type Buffer struct {
	memory  []byte
	maxSize int
}

func New(initialSize, maxSize int) Buffer {
	return Buffer{
		memory:  make([]byte, 0, initialSize),
		maxSize: maxSize,
	}
}

func (b *Buffer) Append(data []byte) (ok bool) {
	if len(b.memory)+len(data) > b.maxSize {
		return false
	}

	b.memory = append(b.memory, data...)
	return true
}

// Bytes returns the accumulated contents. The slice is invalidated by the
// next Append or Skip, so callers must copy anything they hand off.
func (b *Buffer) Bytes() []byte {
	return b.memory
}

// Skip drops the first n bytes, shifting the remainder to the front.
func (b *Buffer) Skip(n int) {
	if n <= 0 {
		return
	}

	if n >= len(b.memory) {
		b.memory = b.memory[:0]
		return
	}

	b.memory = b.memory[:copy(b.memory, b.memory[n:])]
}

func (b *Buffer) Len() int {
	return len(b.memory)
}

func (b *Buffer) Clear() {
	b.memory = b.memory[:0]
}
