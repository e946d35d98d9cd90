package kmerindex

// Counter is the dense array of 16-bit shared-k-mer counts, one per
// record index. It is reused query-to-query: after the top-N are read
// out via the min-heap, only the counters that were incremented are
// reset, by replaying the same increments in reverse.
type Counter struct {
	counts []uint16
	touched []int32 // record indices incremented since the last Reset
}

// NewCounter allocates a counter sized to n records.
func NewCounter(n int) *Counter {
	return &Counter{counts: make([]uint16, n)}
}

// Grow extends the counter to cover n records (clustering adds records
// incrementally; the counter must track the live index size).
func (c *Counter) Grow(n int) {
	if n <= len(c.counts) {
		return
	}
	grown := make([]uint16, n)
	copy(grown, c.counts)
	c.counts = grown
}

// At returns the current count for record index i.
func (c *Counter) At(i int) uint16 { return c.counts[i] }

// Add increments the counters at every posting in list, recording which
// indices were touched so Reset can undo exactly this set. A SIMD
// implementation would only change how fast the same postings are
// walked, never which counters end up incremented.
func (c *Counter) Add(list []int32) {
	for _, idx := range list {
		c.counts[idx]++
		c.touched = append(c.touched, idx)
	}
}

// Reset decrements every counter that Add touched since the last Reset,
// restoring the array to all-zero without a full bulk clear.
func (c *Counter) Reset() {
	for _, idx := range c.touched {
		c.counts[idx]--
	}
	c.touched = c.touched[:0]
}

// Touched returns the record indices incremented since the last Reset,
// i.e. the candidate set with a nonzero shared-k-mer count.
func (c *Counter) Touched() []int32 { return c.touched }
