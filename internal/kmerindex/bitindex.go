package kmerindex

import (
	"github.com/golang-collections/go-datastructures/bitarray"
)

// BitIndex is a bitmap representation of the index (the clustering
// driver itself uses Index): it sets a per-record bit
// in a bitmap keyed by k-mer instead of appending to a sorted posting
// slice. It trades the sorted
// invariant for O(1) membership tests and supports the same incremental
// growth the clustering driver needs as new centroids are promoted.
//
// bitarray.BitArray backs each k-mer's record set, the same
// SetBit/GetBit pair over a shared bit array used by screening-style
// Bloom bitmaps.
type BitIndex struct {
	w int
	bits map[uint32]bitarray.BitArray
	order map[uint32][]int32 // insertion-ordered record list per k-mer, for fast iteration
	capacity uint64
}

// NewBitIndex creates an empty bitmap index for word length w, sized for
// an initial capacity records (grown as needed).
func NewBitIndex(w int, capacity int) *BitIndex {
	if capacity < 1 {
		capacity = 1
	}
	return &BitIndex{
		w: w,
		bits: make(map[uint32]bitarray.BitArray),
		order: make(map[uint32][]int32),
		capacity: uint64(capacity),
	}
}

// Add registers every unique, unambiguous k-mer of seq against
// recordIndex, growing each k-mer's bit array on demand.
func (b *BitIndex) Add(recordIndex int, seq []byte) error {
	if uint64(recordIndex) >= b.capacity {
		b.capacity = uint64(recordIndex) + 1
	}

	seen := make(map[uint32]bool)
	return Kmers(seq, b.w, func(_ int, kmer uint32) {
		if seen[kmer] {
			return
		}
		seen[kmer] = true

		ba, ok := b.bits[kmer]
		if !ok {
			ba = bitarray.NewBitArray(b.capacity)
			b.bits[kmer] = ba
		}
		set, err := ba.GetBit(uint64(recordIndex))
		if err != nil {
			// recordIndex lies past this k-mer's bit array: rebuild it at
			// the current capacity, carrying the existing members over.
			ba = bitarray.NewBitArray(b.capacity)
			for _, idx := range b.order[kmer] {
				ba.SetBit(uint64(idx))
			}
			b.bits[kmer] = ba
			set = false
		}
		if set {
			return
		}
		if err := ba.SetBit(uint64(recordIndex)); err != nil {
			return
		}
		b.order[kmer] = append(b.order[kmer], int32(recordIndex))
	})
}

// Members returns the record indices registered against kmer, in the
// order they were added.
func (b *BitIndex) Members(kmer uint32) []int32 {
	return b.order[kmer]
}

// AddTo increments counter for every member of kmer's bitmap, the
// bitmap-path equivalent of Counter.Add over a sorted posting slice.
func (b *BitIndex) AddTo(counter *Counter, kmer uint32) {
	members := b.order[kmer]
	if len(members) == 0 {
		return
	}
	counter.Grow(int(b.capacity))
	counter.Add(members)
}
