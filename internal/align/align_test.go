package align

import "testing"

func TestSearchScalarExactMatch(t *testing.T) {
	res := SearchScalar([]byte("ACGTACGT"), []byte("ACGTACGT"), DefaultScores(), DefaultGapPenalties())
	if !res.Aligned {
		t.Fatal("expected an alignment")
	}
	if res.Matches != 8 || res.Mismatches != 0 || res.Indels != 0 {
		t.Fatalf("Matches=%d Mismatches=%d Indels=%d, want 8/0/0", res.Matches, res.Mismatches, res.Indels)
	}
	if res.Cigar != "8M" {
		t.Fatalf("Cigar = %q, want 8M", res.Cigar)
	}
}

func TestSearchScalarSingleMismatch(t *testing.T) {
	res := SearchScalar([]byte("ACGTACGT"), []byte("ACGAACGT"), DefaultScores(), DefaultGapPenalties())
	if !res.Aligned {
		t.Fatal("expected an alignment")
	}
	if res.Mismatches != 1 || res.Matches != 7 {
		t.Fatalf("Matches=%d Mismatches=%d, want 7/1", res.Matches, res.Mismatches)
	}
}

func TestSearchScalarInsertionOpensGap(t *testing.T) {
	// query has an extra base relative to target: one query-gap run in target.
	res := SearchScalar([]byte("ACGTTACGT"), []byte("ACGTACGT"), DefaultScores(), DefaultGapPenalties())
	if !res.Aligned {
		t.Fatal("expected an alignment")
	}
	if res.Gaps != 1 {
		t.Fatalf("Gaps = %d, want 1", res.Gaps)
	}
	if res.Indels != 1 {
		t.Fatalf("Indels = %d, want 1", res.Indels)
	}
}

func TestSearchScalarEmptySequenceUnaligned(t *testing.T) {
	res := SearchScalar(nil, []byte("ACGT"), DefaultScores(), DefaultGapPenalties())
	if res.Aligned {
		t.Fatal("expected an empty query to be reported as unaligned")
	}
}

func TestSearchScalarCaseInsensitive(t *testing.T) {
	res := SearchScalar([]byte("acgtacgt"), []byte("ACGTACGT"), DefaultScores(), DefaultGapPenalties())
	if !res.Aligned || res.Mismatches != 0 {
		t.Fatalf("lowercase/uppercase bases should match: Mismatches=%d", res.Mismatches)
	}
}

func TestSearch16AgreesWithScalar(t *testing.T) {
	pairs := []struct{ q, d string }{
		{"ACGTACGT", "ACGTACGT"},
		{"ACGTACGT", "ACGAACGT"},
		{"ACGTTACGT", "ACGTACGT"},
		{"GGGGCCCCAAAATTTT", "GGGGCCCCAAAATTTT"},
		{"GATTACA", "GATTACCA"},
	}
	lanes := make([]Lane, len(pairs))
	for i, p := range pairs {
		lanes[i] = Lane{Query: []byte(p.q), Target: []byte(p.d)}
	}

	batched := Search16(lanes, DefaultScores(), DefaultGapPenalties())
	for i, p := range pairs {
		want := SearchScalar([]byte(p.q), []byte(p.d), DefaultScores(), DefaultGapPenalties())
		got := batched[i]
		if got.Aligned != want.Aligned || got.Cigar != want.Cigar || got.Score != want.Score {
			t.Fatalf("lane %d: Search16 = %+v, want %+v", i, got, want)
		}
	}
}

func TestSearch16HandlesPartialBatch(t *testing.T) {
	// More than one full batch's worth of lanes, leaving a partial final batch.
	lanes := make([]Lane, Channels+3)
	for i := range lanes {
		lanes[i] = Lane{Query: []byte("ACGTACGT"), Target: []byte("ACGTACGT")}
	}
	out := Search16(lanes, DefaultScores(), DefaultGapPenalties())
	if len(out) != len(lanes) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(lanes))
	}
	for i, res := range out {
		if !res.Aligned || res.Matches != 8 {
			t.Fatalf("lane %d: %+v", i, res)
		}
	}
}

func TestTrimStripsTerminalGaps(t *testing.T) {
	// 2 leading deletions, 4 matches, 2 trailing insertions.
	res := Result{
		Cigar: "2D4M2I",
		Matches: 4,
		Mismatches: 0,
		Indels: 4,
	}
	trimmed := Trim(res, 6, 8)
	if trimmed.InternalIndels != 0 {
		t.Fatalf("InternalIndels = %d, want 0 (terminal gaps excluded)", trimmed.InternalIndels)
	}
	if trimmed.InternalMatches != 4 {
		t.Fatalf("InternalMatches = %d, want 4", trimmed.InternalMatches)
	}
	if trimmed.ID2 != 1.0 {
		t.Fatalf("ID2 = %v, want 1.0 (matches / (matches+mismatches))", trimmed.ID2)
	}
}

func TestTrimInternalGapCounts(t *testing.T) {
	res := Result{
		Cigar: "4M2I4M",
		Matches: 8,
		Mismatches: 0,
		Indels: 2,
	}
	trimmed := Trim(res, 8, 10)
	if trimmed.InternalGaps != 1 {
		t.Fatalf("InternalGaps = %d, want 1", trimmed.InternalGaps)
	}
	if trimmed.InternalIndels != 2 {
		t.Fatalf("InternalIndels = %d, want 2", trimmed.InternalIndels)
	}
	if trimmed.ID3 != 1.0 {
		t.Fatalf("ID3 = %v, want 1.0 (matches / shortest sequence)", trimmed.ID3)
	}
}

func TestFormatCigarRoundTrips(t *testing.T) {
	cigar := "12M3I5M"
	ops := parseCigar(cigar)
	if got := FormatCigar(ops); got != cigar {
		t.Fatalf("FormatCigar round trip = %q, want %q", got, cigar)
	}
}

func TestDefaultScoresAndGapPenalties(t *testing.T) {
	sc := DefaultScores()
	if sc.Match != 2 || sc.Mismatch != -4 {
		t.Fatalf("DefaultScores = %+v, want Match=2 Mismatch=-4", sc)
	}
	gp := DefaultGapPenalties()
	if gp.QueryInterior.Open != 20 || gp.QueryInterior.Extend != 2 {
		t.Fatalf("DefaultGapPenalties.QueryInterior = %+v, want Open=20 Extend=2", gp.QueryInterior)
	}
}
