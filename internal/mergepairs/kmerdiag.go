// Package mergepairs implements paired-end read merging: quality
// truncation, k-mer diagonal discovery via a buzhash32 rolling hash,
// overlap-score optimization, and posterior quality recomputation via a
// precomputed 128x128 table, run through a chunked producer/consumer
// pipeline.
package mergepairs

import (
	"math/rand"

	"github.com/chmduquesne/rollinghash"
	"github.com/chmduquesne/rollinghash/buzhash32"
)

// DefaultKmerLen is the diagonal-discovery k-mer length.
const DefaultKmerLen = 5

// newHashTable generates the base permutation a buzhash32 rolling hash
// is built from, one fresh random table per run.
func newHashTable() [256]uint32 {
	var table [256]uint32
	seen := make(map[uint32]bool)
	for i := 0; i < 256; i++ {
		for {
			x := uint32(rand.Int63())
			if !seen[x] {
				seen[x] = true
				table[i] = x
				break
			}
		}
	}
	return table
}

// diagonalCounts builds a k-mer position index of fwd (the truncated
// forward read), then rolls a hash across revcomp(rev) probing that
// index, accumulating a count per diagonal d = rev_len + fwd_pos -
// rev_pos.
func diagonalCounts(fwd, revRC []byte, k int, table [256]uint32) map[int]int {
	index := make(map[uint32][]int) // kmer hash -> forward positions

	var fh rollinghash.Hash32 = buzhash32.NewFromUint32Array(table)
	for i := 0; i+k <= len(fwd); i++ {
		fh.Reset()
		fh.Write(fwd[i : i+k])
		h := fh.Sum32()
		index[h] = append(index[h], i)
	}

	counts := make(map[int]int)
	if len(revRC) < k {
		return counts
	}

	var rh rollinghash.Hash32 = buzhash32.NewFromUint32Array(table)
	rh.Write(revRC[:k])
	probe := func(pos int, h uint32) {
		for _, fwdPos := range index[h] {
			d := len(revRC) + fwdPos - pos
			counts[d]++
		}
	}
	probe(0, rh.Sum32())
	for pos := 1; pos+k <= len(revRC); pos++ {
		rh.Roll(revRC[pos+k-1])
		probe(pos, rh.Sum32())
	}

	return counts
}
