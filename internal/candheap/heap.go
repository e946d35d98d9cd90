// Package candheap implements a bounded min-heap of top candidates: a
// fixed-capacity array heap of (record index, shared-k-mer count,
// record length) triples, ordered so the worst candidate is always at
// the root.
package candheap

// Candidate is one (record_index, shared_kmer_count, record_length)
// triple.
type Candidate struct {
	RecordIndex int32
	Count uint16
	Length uint32
}

// less reports whether a is "worse" than b under the heap's ordering:
// smaller count ranks worse; on a count tie, smaller length ranks worse
// (a longer record wins the tie); on a further tie, smaller record index
// ranks worse (a higher record index wins the tie). The heap keeps the
// worst element at the root so a full heap can cheaply test "does this
// beat the current worst".
func less(a, b Candidate) bool {
	if a.Count != b.Count {
		return a.Count < b.Count
	}
	if a.Length != b.Length {
		return a.Length < b.Length
	}
	return a.RecordIndex < b.RecordIndex
}

// Heap is a bounded array-backed binary min-heap of Candidates.
type Heap struct {
	capacity int
	data []Candidate
}

// New creates a heap that will hold at most capacity candidates.
func New(capacity int) *Heap {
	return &Heap{capacity: capacity, data: make([]Candidate, 0, capacity)}
}

// Len returns the number of candidates currently held.
func (h *Heap) Len() int { return len(h.data) }

// Full reports whether the heap has reached capacity.
func (h *Heap) Full() bool { return len(h.data) >= h.capacity }

// Push adds c to the heap. If the heap is not yet full, c is inserted
// and sifted up. If the heap is full, c replaces the root only when c is
// better than the current worst (i.e. less(root, c)); otherwise c is
// dropped: "add (sift-up when not full) or replace-root (sift down when
// full and new element exceeds root)".
func (h *Heap) Push(c Candidate) {
	if !h.Full() {
		h.data = append(h.data, c)
		h.siftUp(len(h.data) - 1)
		return
	}
	if less(h.data[0], c) {
		h.data[0] = c
		h.siftDown(0)
	}
}

func (h *Heap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !less(h.data[i], h.data[parent]) {
			break
		}
		h.data[i], h.data[parent] = h.data[parent], h.data[i]
		i = parent
	}
}

func (h *Heap) siftDown(i int) {
	n := len(h.data)
	for {
		l, r := 2*i+1, 2*i+2
		smallest := i
		if l < n && less(h.data[l], h.data[smallest]) {
			smallest = l
		}
		if r < n && less(h.data[r], h.data[smallest]) {
			smallest = r
		}
		if smallest == i {
			return
		}
		h.data[i], h.data[smallest] = h.data[smallest], h.data[i]
		i = smallest
	}
}

// Sort returns the heap's contents sorted in descending order (best
// first). It does not mutate the heap.
func (h *Heap) Sort() []Candidate {
	out := make([]Candidate, len(h.data))
	copy(out, h.data)

	// In-place heapsort with the inverse comparator: repeatedly pop the
	// current worst to the end, shrinking the live heap region.
	n := len(out)
	for end := n - 1; end > 0; end-- {
		out[0], out[end] = out[end], out[0]
		siftDownRange(out, 0, end)
	}
	return out
}

func siftDownRange(data []Candidate, i, n int) {
	for {
		l, r := 2*i+1, 2*i+2
		smallest := i
		if l < n && less(data[l], data[smallest]) {
			smallest = l
		}
		if r < n && less(data[r], data[smallest]) {
			smallest = r
		}
		if smallest == i {
			return
		}
		data[i], data[smallest] = data[smallest], data[i]
		i = smallest
	}
}
