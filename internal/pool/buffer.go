// Package pool provides memory management optimizations.
// Part buffers are pooled per part size so that consecutive part uploads, and
// concurrent uploads sharing a part size, reuse the same allocations.
package pool

import (
	"sync"
)

// BufferPool manages reusable buffers with a fixed capacity.
type BufferPool struct {
	size int
	pool *sync.Pool
}

// NewBufferPool creates a pool handing out buffers with capacity size.
func NewBufferPool(size int) *BufferPool {
	return &BufferPool{
		size: size,
		pool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, 0, size)
				return &buf
			},
		},
	}
}

// Size returns the capacity of buffers handed out by the pool.
func (bp *BufferPool) Size() int {
	return bp.size
}

// Get returns an empty buffer with capacity Size().
// The caller is responsible for calling Put to return the buffer to the pool.
func (bp *BufferPool) Get() []byte {
	bufPtr := bp.pool.Get().(*[]byte)
	// Reset length to 0 but keep capacity
	*bufPtr = (*bufPtr)[:0]
	return *bufPtr
}

// Put returns a buffer to the pool.
// Buffers whose capacity differs from Size() are dropped to avoid memory bloat.
func (bp *BufferPool) Put(buf []byte) {
	if cap(buf) != bp.size {
		return
	}
	buf = buf[:0]
	bp.pool.Put(&buf)
}

var pools sync.Map // int -> *BufferPool

// ForSize returns the process-wide pool for the given buffer size.
func ForSize(size int) *BufferPool {
	if p, ok := pools.Load(size); ok {
		return p.(*BufferPool)
	}
	p, _ := pools.LoadOrStore(size, NewBufferPool(size))
	return p.(*BufferPool)
}
