package mask

import (
	"strings"
	"testing"

	"github.com/kshedden/vsearchgo/internal/seqstore"
)

func TestApplyNoneLeavesSequenceUntouched(t *testing.T) {
	seq := []byte("ACGTACGT")
	orig := append([]byte(nil), seq...)
	Apply(seq, None, false)
	if string(seq) != string(orig) {
		t.Fatalf("Apply(None) modified the sequence: %q", seq)
	}
}

func TestApplySoftLowercasesEverything(t *testing.T) {
	seq := []byte("ACGTACGT")
	Apply(seq, Soft, false)
	if strings.ToUpper(string(seq)) != "ACGTACGT" || string(seq) == "ACGTACGT" {
		t.Fatalf("Apply(Soft) = %q, want an all-lowercase copy", seq)
	}
}

func TestApplySoftHardmaskReplacesWithN(t *testing.T) {
	seq := []byte("ACGTACGT")
	Apply(seq, Soft, true)
	for _, b := range seq {
		if b != 'N' {
			t.Fatalf("Apply(Soft, hardmask) = %q, want all N", seq)
		}
	}
}

func TestApplyDustMasksLowComplexityRegion(t *testing.T) {
	// A long run of a single triplet is classic low-complexity input;
	// DUST should mask at least part of it.
	seq := []byte(strings.Repeat("AAA", 30))
	Apply(seq, Dust, true)

	var masked int
	for _, b := range seq {
		if b == 'N' {
			masked++
		}
	}
	if masked == 0 {
		t.Fatal("Apply(Dust) masked nothing in a low-complexity run")
	}
}

func TestApplyDustLeavesShortSequenceAlone(t *testing.T) {
	// A sequence shorter than a triplet has no scorable interval, so
	// DUST must leave it untouched.
	seq := []byte("AC")
	orig := append([]byte(nil), seq...)
	Apply(seq, Dust, true)
	if string(seq) != string(orig) {
		t.Fatalf("Apply(Dust) modified a too-short-to-score sequence: %q", seq)
	}
}

func TestRunPoolMasksEveryRecord(t *testing.T) {
	store := seqstore.New(0, 0)
	for i := 0; i < 20; i++ {
		store.Add(&seqstore.Record{Header: "r", Seq: []byte(strings.Repeat("AAA", 10))})
	}

	var progressCalls int
	RunPool(store, Dust, true, 4, func(done, total int) {
		progressCalls++
		if total != 20 {
			t.Fatalf("progress total = %d, want 20", total)
		}
	})

	if progressCalls != 20 {
		t.Fatalf("progress callback fired %d times, want 20", progressCalls)
	}
	for i := 0; i < store.Len(); i++ {
		hasN := false
		for _, b := range store.At(i).Seq {
			if b == 'N' {
				hasN = true
			}
		}
		if !hasN {
			t.Fatalf("record %d was not masked", i)
		}
	}
}
