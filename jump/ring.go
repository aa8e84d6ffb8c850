package jump

// BufferCap is the per-sensor ring capacity: enough history for the
// widest validator window at the nominal sample rate, small enough that
// trailing scans stay O(window).
const BufferCap = 50

// Ring is a fixed-capacity FIFO buffer of samples. When full, pushing
// evicts the oldest entry. Push is O(1); Last is O(n) in the requested
// window, never in stream duration.
type Ring struct {
	data []Sample
	pos  int
	full bool
	cap  int
}

// NewRing creates a Ring with the given capacity.
func NewRing(capacity int) *Ring {
	return &Ring{
		data: make([]Sample, capacity),
		cap:  capacity,
	}
}

// Push appends a sample, evicting the oldest when full.
func (r *Ring) Push(s Sample) {
	r.data[r.pos] = s
	r.pos++
	if r.pos >= r.cap {
		r.pos = 0
		r.full = true
	}
}

// Len returns the number of buffered samples.
func (r *Ring) Len() int {
	if r.full {
		return r.cap
	}
	return r.pos
}

// Newest returns the most recently pushed sample.
func (r *Ring) Newest() (Sample, bool) {
	if r.Len() == 0 {
		return Sample{}, false
	}
	idx := r.pos - 1
	if idx < 0 {
		idx = r.cap - 1
	}
	return r.data[idx], true
}

// Last returns up to n of the most recent samples in insertion order
// (oldest first). It allocates a fresh slice so callers may retain it.
func (r *Ring) Last(n int) []Sample {
	l := r.Len()
	if n > l {
		n = l
	}
	if n <= 0 {
		return nil
	}
	out := make([]Sample, n)
	start := r.pos - n
	if start < 0 {
		start += r.cap
	}
	for i := range n {
		out[i] = r.data[(start+i)%r.cap]
	}
	return out
}

// Reset empties the buffer without releasing storage.
func (r *Ring) Reset() {
	r.pos = 0
	r.full = false
}
