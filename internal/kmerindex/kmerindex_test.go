package kmerindex

import "testing"

func TestKmersSkipsAmbiguousWindows(t *testing.T) {
	var got []uint32
	err := Kmers([]byte("ACGTNACGT"), 4, func(pos int, kmer uint32) {
		got = append(got, kmer)
	})
	if err != nil {
		t.Fatalf("Kmers: %v", err)
	}
	// len("ACGTNACGT")-4+1 = 6 windows total; the 4 windows spanning the
	// N are invalid, leaving 2.
	if len(got) != 2 {
		t.Fatalf("got %d valid k-mers, want 2", len(got))
	}
}

func TestKmersRejectsWordLengthOutOfRange(t *testing.T) {
	if err := Kmers([]byte("ACGT"), 2, func(int, uint32) {}); err == nil {
		t.Fatal("expected an error for word length below MinWordLength")
	}
	if err := Kmers([]byte("ACGT"), 16, func(int, uint32) {}); err == nil {
		t.Fatal("expected an error for word length above MaxWordLength")
	}
}

func TestSampleDeduplicates(t *testing.T) {
	// "AAAAA" with w=3 produces the same k-mer at every position.
	sample, err := Sample([]byte("AAAAA"), 3)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(sample) != 1 {
		t.Fatalf("len(sample) = %d, want 1", len(sample))
	}
}

func TestNumBuckets(t *testing.T) {
	if got := NumBuckets(3); got != 64 {
		t.Fatalf("NumBuckets(3) = %d, want 64", got)
	}
}

func TestIndexAddRequiresSequentialOrder(t *testing.T) {
	idx := New(4)
	if err := idx.Add(0, []byte("ACGTACGT")); err != nil {
		t.Fatalf("Add(0): %v", err)
	}
	if err := idx.Add(2, []byte("ACGTACGT")); err == nil {
		t.Fatal("expected an error adding out-of-order record index 2 after 0")
	}
	if idx.NumRecords() != 1 {
		t.Fatalf("NumRecords = %d, want 1 after a rejected add", idx.NumRecords())
	}
}

func TestIndexPostingAndKmersOf(t *testing.T) {
	idx := New(3)
	if err := idx.Add(0, []byte("AAAA")); err != nil {
		t.Fatalf("Add(0): %v", err)
	}
	if err := idx.Add(1, []byte("AAAA")); err != nil {
		t.Fatalf("Add(1): %v", err)
	}

	kmers := idx.KmersOf(0)
	if len(kmers) != 1 {
		t.Fatalf("KmersOf(0) = %v, want a single distinct k-mer", kmers)
	}
	posting := idx.Posting(kmers[0])
	if len(posting) != 2 || posting[0] != 0 || posting[1] != 1 {
		t.Fatalf("Posting = %v, want [0 1]", posting)
	}
}

func TestIndexWordLength(t *testing.T) {
	idx := New(7)
	if idx.WordLength() != 7 {
		t.Fatalf("WordLength = %d, want 7", idx.WordLength())
	}
}

func TestBitIndexAddAndMembers(t *testing.T) {
	b := NewBitIndex(3, 4)
	if err := b.Add(0, []byte("AAAA")); err != nil {
		t.Fatalf("Add(0): %v", err)
	}
	if err := b.Add(1, []byte("AAAA")); err != nil {
		t.Fatalf("Add(1): %v", err)
	}

	var kmer uint32
	err := Kmers([]byte("AAAA"), 3, func(_ int, k uint32) { kmer = k })
	if err != nil {
		t.Fatalf("Kmers: %v", err)
	}

	members := b.Members(kmer)
	if len(members) != 2 || members[0] != 0 || members[1] != 1 {
		t.Fatalf("Members = %v, want [0 1]", members)
	}
}

func TestBitIndexAddToIncrementsCounter(t *testing.T) {
	b := NewBitIndex(3, 2)
	if err := b.Add(0, []byte("AAAA")); err != nil {
		t.Fatalf("Add(0): %v", err)
	}
	if err := b.Add(1, []byte("AAAA")); err != nil {
		t.Fatalf("Add(1): %v", err)
	}

	var kmer uint32
	err := Kmers([]byte("AAAA"), 3, func(_ int, k uint32) { kmer = k })
	if err != nil {
		t.Fatalf("Kmers: %v", err)
	}

	c := NewCounter(2)
	b.AddTo(c, kmer)
	if c.At(0) != 1 || c.At(1) != 1 {
		t.Fatalf("counts = [%d %d], want [1 1]", c.At(0), c.At(1))
	}
}
