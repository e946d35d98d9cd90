// Package align implements the Needleman-Wunsch global aligner family:
// asymmetric six-class gap penalties, a scalar reference kernel, and a
// batched "search16" kernel that honors the same CHANNELS=8/CDEPTH=4
// contract as the original SIMD kernel without requiring actual SIMD
// intrinsics.
package align

// GapClass is one (open, extend) penalty pair.
type GapClass struct {
	Open int
	Extend int
}

// GapPenalties bundles the six gap classes: query
// and target dimensions, each split into left/interior/right edge
// treatment. "Query" gaps are positions where the query is consumed with
// no corresponding target base (CIGAR 'I'); "target" gaps are positions
// where the target is consumed with no corresponding query base (CIGAR
// 'D').
type GapPenalties struct {
	QueryLeft GapClass
	QueryInterior GapClass
	QueryRight GapClass

	TargetLeft GapClass
	TargetInterior GapClass
	TargetRight GapClass
}

// DefaultGapPenalties mirrors vsearch's own interior defaults (gap open
// 20, gap extend 2), applied uniformly to all six classes unless the
// caller overrides the edge behavior (e.g. free end gaps).
func DefaultGapPenalties() GapPenalties {
	interior := GapClass{Open: 20, Extend: 2}
	return GapPenalties{
		QueryLeft: interior, QueryInterior: interior, QueryRight: interior,
		TargetLeft: interior, TargetInterior: interior, TargetRight: interior,
	}
}

// Scores holds the match/mismatch scoring scheme. Ambiguity codes score
// as a mismatch against any base that is not an identical letter; exact
// IUPAC set-intersection scoring is out of scope for the core (a
// sequence carrying real ambiguity letters is expected to have been
// masked or excluded upstream of alignment).
type Scores struct {
	Match int
	Mismatch int
}

// DefaultScores mirrors vsearch's defaults (match +2, mismatch -4).
func DefaultScores() Scores {
	return Scores{Match: 2, Mismatch: -4}
}

// Sub returns the substitution score for aligning query base q against
// target base t.
func (s Scores) Sub(q, t byte) int {
	if upper(q) == upper(t) {
		return s.Match
	}
	return s.Mismatch
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
