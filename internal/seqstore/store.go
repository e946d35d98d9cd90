package seqstore

import "sort"

// Store owns the dense record table loaded from a reference database.
// Lookups by index return non-owning views (the Record itself, since Go
// slices already share backing storage; callers must not mutate Seq).
type Store struct {
	records []*Record

	minSeqLength int
	maxSeqLength int

	tooShort int
	tooLong int
}

// New creates an empty Store with length bounds applied at load time:
// records shorter than minSeqLength or longer than maxSeqLength are
// discarded at load time with a counted (not fatal) warning.
func New(minSeqLength, maxSeqLength int) *Store {
	return &Store{minSeqLength: minSeqLength, maxSeqLength: maxSeqLength}
}

// Add appends rec to the store unless its length falls outside the
// configured bounds, in which case it is discarded and the appropriate
// counter is incremented. The returned bool reports whether rec was kept.
func (s *Store) Add(rec *Record) bool {
	n := len(rec.Seq)
	if n < s.minSeqLength {
		s.tooShort++
		return false
	}
	if s.maxSeqLength > 0 && n > s.maxSeqLength {
		s.tooLong++
		return false
	}
	rec.Index = len(s.records)
	s.records = append(s.records, rec)
	return true
}

// Len returns the number of kept records.
func (s *Store) Len() int { return len(s.records) }

// At returns the record at index i. Panics on an out-of-range index: an
// internal bug, not recoverable user input.
func (s *Store) At(i int) *Record { return s.records[i] }

// Records returns the full record slice in the store's current order
// (load order until Sort reorders it). Callers must
// not mutate it; it is the store's only copy.
func (s *Store) Records() []*Record { return s.records }

// Discarded reports the counted too-short/too-long discards accumulated
// by Add, for the end-of-run summary warning.
func (s *Store) Discarded() (tooShort, tooLong int) { return s.tooShort, s.tooLong }

// SortOrder selects one of the two sort contracts consumed by
// clustering.
type SortOrder int

const (
	// SortByLengthThenAbundance orders (length desc, abundance desc,
	// header asc, index asc), used by cluster_fast.
	SortByLengthThenAbundance SortOrder = iota
	// SortByAbundance orders (abundance desc, header asc, index asc),
	// used by cluster_size.
	SortByAbundance
)

// Sort reorders the store's records in place per order, and renumbers
// Index to match the new order.
func (s *Store) Sort(order SortOrder) {
	recs := s.records
	switch order {
	case SortByLengthThenAbundance:
		sort.SliceStable(recs, func(i, j int) bool {
			a, b := recs[i], recs[j]
			if len(a.Seq) != len(b.Seq) {
				return len(a.Seq) > len(b.Seq)
			}
			if a.Abundance != b.Abundance {
				return a.Abundance > b.Abundance
			}
			if a.Header != b.Header {
				return a.Header < b.Header
			}
			return a.Index < b.Index
		})
	case SortByAbundance:
		sort.SliceStable(recs, func(i, j int) bool {
			a, b := recs[i], recs[j]
			if a.Abundance != b.Abundance {
				return a.Abundance > b.Abundance
			}
			if a.Header != b.Header {
				return a.Header < b.Header
			}
			return a.Index < b.Index
		})
	}
	for i, r := range recs {
		r.Index = i
	}
}

// IsSorted reports whether the store is currently in non-decreasing
// Index order relative to some earlier assignment — used by
// cluster_smallmem, which trusts caller order and refuses an
// out-of-order record unless usersort is set. Since Add assigns Index
// monotonically, this always holds for records as loaded; the check
// exists for callers that reuse a Store across an externally reordered
// input stream.
func (s *Store) IsSorted() bool {
	for i := 1; i < len(s.records); i++ {
		if s.records[i].Index < s.records[i-1].Index {
			return false
		}
	}
	return true
}
