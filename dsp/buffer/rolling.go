package buffer

// Rolling is a fixed-capacity window over the most recent samples.
//
// The window always holds exactly Len() samples: it starts zero-filled and
// every Push evicts the oldest sample. Storage is a ring, so Push is O(1) and
// never reallocates. Non-finite values are stored as given.
type Rolling struct {
	data []float64
	head int // index of the oldest sample
}

// NewRolling returns a zero-filled window of the given capacity.
// Negative capacities are treated as 0; a zero-capacity window ignores pushes.
func NewRolling(capacity int) *Rolling {
	if capacity < 0 {
		capacity = 0
	}
	return &Rolling{data: make([]float64, capacity)}
}

// Len returns the window length, which always equals the capacity.
func (r *Rolling) Len() int {
	return len(r.data)
}

// Push appends x as the newest sample and discards the oldest one.
func (r *Rolling) Push(x float64) {
	if len(r.data) == 0 {
		return
	}
	r.data[r.head] = x
	r.head++
	if r.head == len(r.data) {
		r.head = 0
	}
}

// PushBlock pushes every value of xs in order.
func (r *Rolling) PushBlock(xs []float64) {
	n := len(r.data)
	if n == 0 {
		return
	}
	// Only the last n values survive.
	if len(xs) > n {
		xs = xs[len(xs)-n:]
	}
	for _, x := range xs {
		r.data[r.head] = x
		r.head++
		if r.head == n {
			r.head = 0
		}
	}
}

// Snapshot returns a copy of the window contents, oldest first.
func (r *Rolling) Snapshot() []float64 {
	return r.SnapshotInto(nil)
}

// SnapshotInto copies the window contents, oldest first, into dst and
// returns it. dst is reallocated when its capacity is too small.
func (r *Rolling) SnapshotInto(dst []float64) []float64 {
	n := len(r.data)
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	k := copy(dst, r.data[r.head:])
	copy(dst[k:], r.data[:r.head])
	return dst
}
