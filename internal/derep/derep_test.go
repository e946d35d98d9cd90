package derep

import (
	"testing"

	"github.com/kshedden/vsearchgo/internal/seqstore"
)

func rec(header, seq string) *seqstore.Record {
	return &seqstore.Record{Header: header, Label: header, Seq: []byte(seq)}
}

// TestRunMergesDuplicatesAtFirstOccurrence exercises the two-pass
// contract directly: identical sequences collapse into one emitted
// record, at the index of their first occurrence, with abundance
// summed across every occurrence.
func TestRunMergesDuplicatesAtFirstOccurrence(t *testing.T) {
	recs := []*seqstore.Record{
		rec("a", "ACGTACGT"),
		rec("b", "TTTT"),
		rec("c", "ACGTACGT"),
		rec("d", "ACGTACGT"),
	}

	var emittedHeaders []string
	var sizes []int64
	err := Run(recs, Options{SizeOut: true}, func(out *seqstore.Record, mergedSize int64) error {
		emittedHeaders = append(emittedHeaders, out.Header)
		sizes = append(sizes, mergedSize)
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(emittedHeaders) != 2 {
		t.Fatalf("emitted %d records, want 2 (one per distinct sequence): %v", len(emittedHeaders), emittedHeaders)
	}
	// "a" is the first occurrence of the ACGTACGT cluster.
	if emittedHeaders[0] != "a" {
		t.Fatalf("first emitted record = %q, want %q (first occurrence)", emittedHeaders[0], "a")
	}
	if sizes[0] != 3 {
		t.Fatalf("merged size for the ACGTACGT cluster = %d, want 3", sizes[0])
	}
	if emittedHeaders[1] != "b" || sizes[1] != 1 {
		t.Fatalf("second emitted record = %q size %d, want %q size 1", emittedHeaders[1], sizes[1], "b")
	}
}

// TestRunSizeInStartsFromHeaderAbundance verifies SizeIn uses each
// record's own size= abundance as the starting count being merged,
// rather than always starting from 1.
func TestRunSizeInStartsFromHeaderAbundance(t *testing.T) {
	r1 := rec("a;size=3;", "ACGT")
	r1.Abundance = 3
	r2 := rec("b;size=5;", "ACGT")
	r2.Abundance = 5

	var size int64
	err := Run([]*seqstore.Record{r1, r2}, Options{SizeIn: true}, func(out *seqstore.Record, mergedSize int64) error {
		size = mergedSize
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if size != 8 {
		t.Fatalf("merged size = %d, want 8 (3+5)", size)
	}
}

// TestRunStrandBothMergesRevcomp verifies that with Strand "both" a
// read and its reverse complement collapse into a single cluster.
func TestRunStrandBothMergesRevcomp(t *testing.T) {
	recs := []*seqstore.Record{
		rec("fwd", "ACGTACGT"),
		rec("rc", "ACGTACGT"), // revcomp of ACGTACGT is itself (palindromic)
	}
	n := 0
	err := Run(recs, Options{Strand: "both"}, func(out *seqstore.Record, mergedSize int64) error {
		n++
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if n != 1 {
		t.Fatalf("emitted %d clusters, want 1", n)
	}
}

// TestRunMinMaxUniqueSizeFilters verifies clusters outside
// [MinUniqueSize, MaxUniqueSize] are dropped entirely.
func TestRunMinMaxUniqueSizeFilters(t *testing.T) {
	recs := []*seqstore.Record{
		rec("a", "AAAA"),
		rec("b", "CCCC"),
		rec("c", "CCCC"),
		rec("d", "CCCC"),
	}
	var emitted []string
	err := Run(recs, Options{MinUniqueSize: 2, MaxUniqueSize: 2}, func(out *seqstore.Record, mergedSize int64) error {
		emitted = append(emitted, out.Header)
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(emitted) != 0 {
		t.Fatalf("emitted %v, want none (cluster sizes are 1 and 3, outside [2,2])", emitted)
	}
}

func TestRereplicateExpandsByAbundance(t *testing.T) {
	r := rec("a;size=3;", "ACGT")
	r.Abundance = 3

	var copies []int64
	err := Rereplicate([]*seqstore.Record{r}, func(out *seqstore.Record, copyIndex int64) error {
		copies = append(copies, copyIndex)
		return nil
	})
	if err != nil {
		t.Fatalf("Rereplicate() error: %v", err)
	}
	if len(copies) != 3 {
		t.Fatalf("Rereplicate emitted %d copies, want 3", len(copies))
	}
}

func TestRereplicateRejectsNonPositiveAbundance(t *testing.T) {
	r := rec("a", "ACGT")
	r.Abundance = 0
	err := Rereplicate([]*seqstore.Record{r}, func(out *seqstore.Record, copyIndex int64) error {
		return nil
	})
	if err == nil {
		t.Fatal("Rereplicate() with zero abundance should error")
	}
}
