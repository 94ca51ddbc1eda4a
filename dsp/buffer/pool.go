package buffer

import "sync"

// Pool recycles scratch Buffers between ticks so that per-tick processing
// of a full window does not allocate in steady state.
type Pool struct {
	pool sync.Pool
}

// Scratch is the process-wide pool used by the filtering stages.
var Scratch = NewPool()

// NewPool returns a Pool ready for use.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				return &Buffer{}
			},
		},
	}
}

// Get returns a zeroed Buffer of the requested length.
// Callers hand it back via Put when done.
func (p *Pool) Get(length int) *Buffer {
	b := p.pool.Get().(*Buffer)
	b.Resize(length)
	b.Zero()
	return b
}

// Put returns a Buffer to the pool. The buffer must not be used afterwards.
func (p *Pool) Put(b *Buffer) {
	if b == nil {
		return
	}
	p.pool.Put(b)
}
