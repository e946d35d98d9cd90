package search

import (
	"github.com/kshedden/vsearchgo/internal/candheap"
	"github.com/kshedden/vsearchgo/internal/kmerindex"
)

// CollectCandidates samples query's k-mers into counter, then pushes the
// top-N touched records into a bounded heap: N = maxaccepts + maxrejects
// + 8, capped by the record count.
func CollectCandidates(idx *kmerindex.Index, counter *kmerindex.Counter, query []byte, maxAccepts, maxRejects int) []candheap.Candidate {
	n := maxAccepts + maxRejects + 8
	if n > idx.NumRecords() {
		n = idx.NumRecords()
	}
	if n <= 0 {
		return nil
	}

	kmers, err := kmerindex.Sample(query, idx.WordLength())
	if err != nil {
		return nil
	}
	for _, km := range kmers {
		counter.Add(idx.Posting(km))
	}
	defer counter.Reset()

	heap := candheap.New(n)
	seen := make(map[int32]bool)
	for _, ri := range counter.Touched() {
		if seen[ri] {
			continue
		}
		seen[ri] = true
		length := len(idx.KmersOf(int(ri))) + idx.WordLength() - 1
		heap.Push(candheap.Candidate{
			RecordIndex: ri,
			Count: counter.At(int(ri)),
			Length: uint32(length),
		})
	}
	return heap.Sort()
}
