// Package fingerprint implements a content-addressed hash table: an
// open-addressed table keyed by a 128-bit fingerprint of a normalized
// sequence, used by exact-search and dereplication.
//
// CityHash-64/128 is the usual choice for this kind of fingerprint; no
// CityHash port was available among the retrieved example repositories,
// so this package builds a 128-bit fingerprint from two
// independently-seeded xxHash64 passes (github.com/cespare/xxhash/v2), a
// widely used, definitely-available non-cryptographic hash with the
// same "fast, well-distributed, not collision-proof" profile a
// probabilistic-identity contract assumes.
package fingerprint

import (
	"github.com/cespare/xxhash/v2"
	"github.com/willf/bloom"
)

// Fingerprint is a 128-bit digest of a normalized sequence.
type Fingerprint struct {
	Lo, Hi uint64
}

// salt is appended, as eight extra bytes, to the second pass's input
// so Hi and Lo are computed from materially different inputs despite
// sharing the same underlying hash function.
const salt = 0x9e3779b97f4a7c15

// Normalize upper-cases seq and maps U to T, the canonical form this
// package hashes over.
func Normalize(seq []byte) []byte {
	out := make([]byte, len(seq))
	for i, b := range seq {
		switch {
		case b >= 'a' && b <= 'z':
			b -= 'a' - 'A'
		}
		if b == 'U' {
			b = 'T'
		}
		out[i] = b
	}
	return out
}

// Hash computes the fingerprint of a normalized sequence.
func Hash(normalized []byte) Fingerprint {
	lo := xxhash.Sum64(normalized)

	h := xxhash.New()
	h.Write(normalized)
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(salt >> (8 * i))
	}
	h.Write(buf[:])
	hi := h.Sum64()

	return Fingerprint{Lo: lo, Hi: hi}
}

// bucket holds one {fingerprint, abundance} slot. abundance == 0 is the
// empty marker.
type bucket struct {
	fp Fingerprint
	seq []byte // retained only when Strict verification is enabled
	abn int64
}

// Table is the linear-probed fingerprint table.
type Table struct {
	buckets []bucket
	filled int

	// Strict enables byte-equality verification on top of fingerprint
	// equality, trading a little memory for immunity to collisions.
	Strict bool

	prefilter *bloom.BloomFilter
}

const minCapacity = 1024

// New creates an empty table with capacity rounded up to a power of two
// no smaller than 1024.
func New(strict bool) *Table {
	t := &Table{
		buckets: make([]bucket, minCapacity),
		Strict: strict,
	}
	t.resetPrefilter()
	return t
}

func (t *Table) resetPrefilter() {
	m, k := bloom.EstimateParameters(uint(len(t.buckets)), 0.01)
	t.prefilter = bloom.New(m, k)
}

func (t *Table) capacity() uint64 { return uint64(len(t.buckets)) }

func fpKey(fp Fingerprint) []byte {
	var b [16]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(fp.Lo >> (8 * i))
		b[8+i] = byte(fp.Hi >> (8 * i))
	}
	return b[:]
}

// probeIndex returns the starting bucket for fp: hash mod capacity.
func (t *Table) probeIndex(fp Fingerprint) uint64 {
	return fp.Lo % t.capacity()
}

// Lookup returns the current abundance for a sequence already hashed to
// fp (and, when Strict, verified against seq), or (0, false) if absent.
func (t *Table) Lookup(fp Fingerprint, seq []byte) (int64, bool) {
	if t.prefilter != nil && !t.prefilter.Test(fpKey(fp)) {
		return 0, false
	}
	i := t.probeIndex(fp)
	cap := t.capacity()
	for n := uint64(0); n < cap; n++ {
		idx := (i + n) % cap
		b := &t.buckets[idx]
		if b.abn == 0 {
			return 0, false
		}
		if b.fp == fp && (!t.Strict || string(b.seq) == string(seq)) {
			return b.abn, true
		}
	}
	return 0, false
}

// Insert merges delta abundance into fp's bucket, creating it if absent.
// It resizes first if occupancy would exceed 95%.
func (t *Table) Insert(fp Fingerprint, seq []byte, delta int64) {
	if float64(t.filled+1) > 0.95*float64(t.capacity()) {
		t.resize()
	}

	i := t.probeIndex(fp)
	cap := t.capacity()
	for n := uint64(0); n < cap; n++ {
		idx := (i + n) % cap
		b := &t.buckets[idx]
		if b.abn == 0 {
			b.fp = fp
			b.abn = delta
			if t.Strict {
				b.seq = append([]byte(nil), seq...)
			}
			t.filled++
			t.prefilter.Add(fpKey(fp))
			return
		}
		if b.fp == fp && (!t.Strict || string(b.seq) == string(seq)) {
			b.abn += delta
			return
		}
	}
	// Unreachable under the 95% load factor invariant.
	panic("fingerprint: table full despite resize")
}

// resize grows the table to ceil(1.5*capacity) and rehashes every
// non-empty bucket.
func (t *Table) resize() {
	newCap := uint64(float64(t.capacity())*1.5 + 0.999999)
	if newCap <= t.capacity() {
		newCap = t.capacity() * 2
	}
	old := t.buckets
	t.buckets = make([]bucket, newCap)
	t.filled = 0
	t.resetPrefilter()

	for _, b := range old {
		if b.abn == 0 {
			continue
		}
		t.Insert(b.fp, b.seq, b.abn)
	}
}

// Len returns the number of occupied buckets.
func (t *Table) Len() int { return t.filled }

// Each calls fn for every occupied bucket's (fingerprint, abundance).
// The iteration order is bucket order, not insertion order.
func (t *Table) Each(fn func(fp Fingerprint, abundance int64)) {
	for _, b := range t.buckets {
		if b.abn != 0 {
			fn(b.fp, b.abn)
		}
	}
}
