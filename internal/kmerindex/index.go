package kmerindex

import (
	"fmt"
)

// Index is the inverted k-mer index: for each distinct k-mer value, a
// growable, strictly-ordered-by-record-index list of postings. Records
// are added one at a time, in index order, with Add: record by record
// for a search-mode reference database, and incrementally for the
// clustering driver's growing centroid set.
//
// Internally, postings are appended into per-bucket slices keyed by
// k-mer, which in Go is simply a map of slices — Go's map already gives
// us the sparse "4^w buckets" address space without the dense allocation
// a flat array of 4^15 buckets would require.
type Index struct {
	w int
	postings map[uint32][]int32

	// perRecordKmers holds, for each indexed record, the set of
	// unique k-mers it registered, as returned by KmersOf.
	perRecordKmers [][]uint32

	numRecords int
}

// New creates an empty index for word length w.
func New(w int) *Index {
	return &Index{w: w, postings: make(map[uint32][]int32)}
}

// WordLength returns the configured k-mer length.
func (idx *Index) WordLength() int { return idx.w }

// NumRecords returns how many records have been added.
func (idx *Index) NumRecords() int { return idx.numRecords }

// Add scans record seq (whose stable store index is recordIndex) and
// appends (kmer, recordIndex) tuples into per-bucket postings. Adding is
// one-shot for a freshly built search index and incremental for
// clustering: an incremental add never removes or reorders existing
// postings.
func (idx *Index) Add(recordIndex int, seq []byte) error {
	if recordIndex != idx.numRecords {
		// Postings must stay strictly ordered by record index; the
		// caller is expected to add records in index order exactly
		// as the clustering driver and one-shot builder both do.
		return errOutOfOrder(recordIndex, idx.numRecords)
	}

	var kmers []uint32
	seen := make(map[uint32]bool)
	err := Kmers(seq, idx.w, func(_ int, kmer uint32) {
		if seen[kmer] {
			return
		}
		seen[kmer] = true
		kmers = append(kmers, kmer)
		idx.postings[kmer] = append(idx.postings[kmer], int32(recordIndex))
	})
	if err != nil {
		return err
	}

	idx.perRecordKmers = append(idx.perRecordKmers, kmers)
	idx.numRecords++
	return nil
}

// Posting returns the sorted posting list for kmer (empty if unseen).
// Callers must not mutate the returned slice.
func (idx *Index) Posting(kmer uint32) []int32 {
	return idx.postings[kmer]
}

// KmersOf returns the unique k-mer set registered for recordIndex
// (search.CollectCandidates uses its size to estimate a candidate's
// length).
func (idx *Index) KmersOf(recordIndex int) []uint32 {
	return idx.perRecordKmers[recordIndex]
}

func errOutOfOrder(got, want int) error {
	return fmt.Errorf("kmerindex: records must be added in index order (got %d, want %d)", got, want)
}
